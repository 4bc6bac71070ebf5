/*
 * @module service/minute_aggregator
 * @description 分钟聚合器：按(产线, 分钟起点)累计速度样本，整分钟后刷出平均值
 * @architecture 业务逻辑层
 * @documentReference DESIGN-000.md
 * @stateFlow 样本累计 -> 整分钟到期 -> 刷出平均 -> 桶移除
 * @rules 当前分钟永不刷出；已刷出分钟的迟到样本直接丢弃
 * @dependencies 无
 */

package service

import "sort"

// minuteKey 聚合桶复合键
type minuteKey struct {
	lineID string
	minute int64 // 分钟起点（Unix秒，60对齐）
}

// minuteBucket 聚合桶
type minuteBucket struct {
	sum   float64
	count int64
}

// MinuteAverage 刷出的分钟平均速度
type MinuteAverage struct {
	LineID string
	Minute int64
	Speed  float64
}

// minuteAggregator 分钟聚合器。并发控制由持有方（AgentService）负责
type minuteAggregator struct {
	buckets   map[minuteKey]*minuteBucket
	watermark int64 // 已刷出的分钟上界，低于该值的迟到样本丢弃
}

func newMinuteAggregator() *minuteAggregator {
	return &minuteAggregator{buckets: make(map[minuteKey]*minuteBucket)}
}

// Record 累计一个速度样本到所属分钟桶。已刷出分钟的迟到样本丢弃，桶不再重开
func (a *minuteAggregator) Record(lineID string, ts int64, speed float64) {
	minute := ts - ts%60
	if minute < a.watermark {
		return
	}
	key := minuteKey{lineID: lineID, minute: minute}
	bucket, ok := a.buckets[key]
	if !ok {
		bucket = &minuteBucket{}
		a.buckets[key] = bucket
	}
	bucket.sum += speed
	bucket.count++
}

// Drain 刷出nowMinute之前所有分钟的平均值并移除对应桶，按(产线, 分钟)排序返回。
// nowMinute自身（当前分钟）保留，等下一轮刷新。水位线单调推进，保证已刷出的分钟不再重开。
func (a *minuteAggregator) Drain(nowMinute int64) []MinuteAverage {
	if nowMinute > a.watermark {
		a.watermark = nowMinute
	}

	var out []MinuteAverage
	for key, bucket := range a.buckets {
		if key.minute >= nowMinute || bucket.count == 0 {
			continue
		}
		out = append(out, MinuteAverage{
			LineID: key.lineID,
			Minute: key.minute,
			Speed:  bucket.sum / float64(bucket.count),
		})
		delete(a.buckets, key)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LineID != out[j].LineID {
			return out[i].LineID < out[j].LineID
		}
		return out[i].Minute < out[j].Minute
	})
	return out
}

// Len 当前桶数量
func (a *minuteAggregator) Len() int {
	return len(a.buckets)
}

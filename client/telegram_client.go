/*
 * @module client/telegram_client
 * @description Telegram机器人客户端，用于产线状态切换通知
 * @architecture 客户端层
 * @documentReference DESIGN-000.md
 * @stateFlow 状态切换 -> 异步发送 -> Telegram Bot API
 * @rules 通知为尽力交付，失败只记日志不重试，绝不阻塞引擎
 * @dependencies net/http, net/url
 */

package client

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramClient Telegram机器人客户端
type TelegramClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewTelegramClient 创建Telegram客户端
func NewTelegramClient() *TelegramClient {
	return &TelegramClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    telegramAPIBase,
	}
}

// SendMessage 发送一条文本消息。token或chatID为空时静默跳过（未配置通知）
func (c *TelegramClient) SendMessage(ctx context.Context, token, chatID, text string) error {
	if token == "" || chatID == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, token)
	params := url.Values{}
	params.Set("chat_id", chatID)
	params.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.URL.RawQuery = params.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// NotifyAsync 异步发送通知，失败只记日志
func (c *TelegramClient) NotifyAsync(token, chatID, text string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := c.SendMessage(ctx, token, chatID, text); err != nil {
			log.Printf("[TelegramClient] 通知发送失败: %v", err)
		}
	}()
}

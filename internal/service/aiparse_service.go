package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/chiaobuy/liango/internal/config"
	"github.com/chiaobuy/liango/internal/repository"
)

// AIParseService 把客户丢来的文字/截图解析成订单草稿。
// 解析结果只是尽力而为的建议值，必须经人工确认才会成为真实订单，
// 这里绝不直接写库。
type AIParseService struct {
	cfg          config.LLMConfig
	productRepo  *repository.ProductRepository
	customerRepo *repository.CustomerRepository
	minioClient  *minio.Client
	bucket       string
	httpClient   *http.Client
	logger       *zap.Logger
}

func NewAIParseService(cfg config.LLMConfig, minioCfg config.MinIOConfig, productRepo *repository.ProductRepository, customerRepo *repository.CustomerRepository, minioClient *minio.Client, logger *zap.Logger) *AIParseService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AIParseService{
		cfg:          cfg,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		minioClient:  minioClient,
		bucket:       minioCfg.Bucket,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

type ParseOrderRequest struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64"`
}

// OrderDraft 解析出的订单草稿（可能不完整，字段缺失由前端补）
type OrderDraft struct {
	CustomerName string `json:"customer_name"`
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	Variant      string `json:"variant"`
}

// ParseOrder 调用托管模型解析输入；截图先存一份到对象存储留底
func (s *AIParseService) ParseOrder(ctx context.Context, req ParseOrderRequest) (*OrderDraft, error) {
	if req.Text == "" && req.ImageBase64 == "" {
		return nil, fmt.Errorf("文字与截图至少要提供一项")
	}
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("未配置语言模型 API，无法解析")
	}

	if req.ImageBase64 != "" {
		if err := s.archiveImage(ctx, req.ImageBase64); err != nil {
			// 留底失败不挡解析，记警告即可
			s.logger.Warn("订单截图留底失败", zap.Error(err))
		}
	}

	prompt, err := s.buildPrompt(req)
	if err != nil {
		return nil, err
	}

	draft, err := s.chatCompletion(ctx, prompt, req.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("语言模型解析失败: %w", err)
	}
	return draft, nil
}

func (s *AIParseService) archiveImage(ctx context.Context, imageBase64 string) error {
	if s.minioClient == nil {
		return fmt.Errorf("对象存储未配置")
	}
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return fmt.Errorf("截图不是合法的 base64: %w", err)
	}
	objectName := fmt.Sprintf("order-screenshots/%s/%s.jpg", time.Now().Format("200601"), uuid.New().String())
	_, err = s.minioClient.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/jpeg"})
	return err
}

func (s *AIParseService) buildPrompt(req ParseOrderRequest) (string, error) {
	products, err := s.productRepo.ListAll()
	if err != nil {
		return "", fmt.Errorf("读取商品失败: %w", err)
	}
	customers, err := s.customerRepo.ListAll()
	if err != nil {
		return "", fmt.Errorf("读取客户失败: %w", err)
	}

	var productNames, customerNames []string
	for _, p := range products {
		if len(p.Variants) > 0 {
			productNames = append(productNames, fmt.Sprintf("%s (變體: %s)", p.Name, strings.Join(p.Variants, "/")))
		} else {
			productNames = append(productNames, p.Name)
		}
	}
	for _, c := range customers {
		if !c.IsStock {
			customerNames = append(customerNames, c.LineName)
		}
	}

	var b strings.Builder
	b.WriteString("你是代購連線助手。从输入中解析出一笔订单，输出 JSON：")
	b.WriteString(`{"customer_name":"","product_name":"","quantity":1,"variant":""}`)
	b.WriteString("。优先匹配已知商品与客户名，无法判断的字段留空。\n")
	b.WriteString("已知商品：" + strings.Join(productNames, "、") + "\n")
	b.WriteString("已知客户：" + strings.Join(customerNames, "、") + "\n")
	if req.Text != "" {
		b.WriteString("输入文字：" + req.Text + "\n")
	}
	return b.String(), nil
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat interface{}   `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatCompletion OpenAI 兼容的 chat completions 调用
func (s *AIParseService) chatCompletion(ctx context.Context, prompt, imageBase64 string) (*OrderDraft, error) {
	var content interface{} = prompt
	if imageBase64 != "" {
		content = []map[string]interface{}{
			{"type": "text", "text": prompt},
			{"type": "image_url", "image_url": map[string]string{
				"url": "data:image/jpeg;base64," + imageBase64,
			}},
		}
	}

	reqBody := chatRequest{
		Model:          s.cfg.Model,
		Messages:       []chatMessage{{Role: "user", Content: content}},
		ResponseFormat: map[string]string{"type": "json_object"},
	}
	body, _ := json.Marshal(reqBody)

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("模型 API 回应 %d: %s", resp.StatusCode, string(respBody))
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return nil, fmt.Errorf("解析模型回应失败: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("模型没有返回结果")
	}

	var draft OrderDraft
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &draft); err != nil {
		return nil, fmt.Errorf("模型输出不是预期的 JSON: %w", err)
	}
	if draft.Quantity <= 0 {
		draft.Quantity = 1
	}
	return &draft, nil
}

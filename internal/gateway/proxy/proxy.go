package proxy

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Proxy Handler
// ============================================================

// To проксирует запрос на фиксированный URL апстрима.
func To(targetURL string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return Forward(c, targetURL)
	}
}

// Forward проксирует запрос по переданному URL (для путей с параметрами).
// Query string исходного запроса переносится на апстрим.
func Forward(c fiber.Ctx, targetURL string) error {
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		targetURL += "?" + qs
	}

	log.Printf("[PROXY] %s %s -> %s", c.Method(), c.Path(), targetURL)

	req, err := buildUpstreamRequest(c, targetURL)
	if err != nil {
		log.Printf("[PROXY] build request error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[PROXY] upstream error: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

// buildUpstreamRequest собирает запрос к апстриму. Multipart-формы
// пересобираются заново, остальное тело уходит как есть.
func buildUpstreamRequest(c fiber.Ctx, targetURL string) (*http.Request, error) {
	contentType := c.Get("Content-Type")

	var req *http.Request
	var err error

	if strings.HasPrefix(contentType, "multipart/form-data") {
		req, err = buildMultipartRequest(c, targetURL)
	} else {
		req, err = http.NewRequest(c.Method(), targetURL, bytes.NewReader(c.Body()))
		if err == nil && contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
	}
	if err != nil {
		return nil, err
	}

	if auth := c.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	return req, nil
}

func buildMultipartRequest(c fiber.Ctx, targetURL string) (*http.Request, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("parse multipart: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, files := range form.File {
		for _, fileHeader := range files {
			file, err := fileHeader.Open()
			if err != nil {
				log.Printf("[PROXY] open form file: %v", err)
				continue
			}

			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, key, fileHeader.Filename))
			h.Set("Content-Type", fileHeader.Header.Get("Content-Type"))

			part, err := writer.CreatePart(h)
			if err != nil {
				file.Close()
				log.Printf("[PROXY] create form part: %v", err)
				continue
			}

			io.Copy(part, file)
			file.Close()
		}
	}

	for key, values := range form.Value {
		for _, value := range values {
			writer.WriteField(key, value)
		}
	}

	writer.Close()

	req, err := http.NewRequest(c.Method(), targetURL, bytes.NewReader(body.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req, nil
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[PROXY] read response error: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if len(values) > 0 {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"floorplan-api/internal/plans/models"
	"floorplan-api/internal/plans/repository"
	"floorplan-api/internal/plans/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Plans Handler
// ============================================================

type PlansHandler struct {
	repo        *repository.Repository
	sessions    *service.SessionManager
	storage     *service.FileStorage
	importerURL string
}

func NewPlansHandler(repo *repository.Repository, sessions *service.SessionManager, storage *service.FileStorage, importerURL string) *PlansHandler {
	return &PlansHandler{
		repo:        repo,
		sessions:    sessions,
		storage:     storage,
		importerURL: importerURL,
	}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type userPayload struct {
	ID        string `json:"id"`
	Login     string `json:"login"`
	FIO       string `json:"fio"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// Login выдает простой токен по паре login/password.
func (h *PlansHandler) Login(c fiber.Ctx) error {
	log.Printf("[PLANS] Login request")

	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	var req loginRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	if req.Login == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "login and password required"})
	}

	user, err := h.repo.GetByCredentials(context.Background(), req.Login, req.Password)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	token := h.sessions.Issue(user.ID)

	return c.JSON(loginResponse{
		Token: token,
		User:  mapUser(user),
	})
}

// Logout отзывает токен сессии.
func (h *PlansHandler) Logout(c fiber.Ctx) error {
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		h.sessions.Revoke(strings.TrimPrefix(auth, "Bearer "))
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetUser возвращает данные пользователя.
func (h *PlansHandler) GetUser(c fiber.Ctx) error {
	targetID, ok := h.authorizeTarget(c)
	if !ok {
		return nil
	}

	user, err := h.repo.GetByID(context.Background(), targetID)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}

	return c.JSON(mapUser(user))
}

// ============================================================
// Scan & plan files
// ============================================================

// UploadScan сохраняет сырой RoomPlan JSON в scans/.
func (h *PlansHandler) UploadScan(c fiber.Ctx) error {
	targetID, ok := h.authorizeTarget(c)
	if !ok {
		return nil
	}

	data, filename, err := h.readJSONFile(c)
	if err != nil {
		return err
	}

	if err := h.storage.EnsureScansDir(targetID); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to prepare scans dir"})
	}

	path := h.storage.ScanPath(targetID, filename)
	if err := h.storage.SaveFile(path, data); err != nil {
		log.Printf("[PLANS] save scan error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"path":     path,
		"filename": filename,
	})
}

// GetScan отдает сохраненный скан.
func (h *PlansHandler) GetScan(c fiber.Ctx) error {
	targetID, ok := h.authorizeTarget(c)
	if !ok {
		return nil
	}

	path, err := h.resolveFilePath(h.storage.ScansDir(targetID), c.Query("name"), ".json")
	if err != nil {
		return err
	}

	c.Set("Content-Type", "application/json")
	return c.SendFile(path)
}

// ScanToPlan принимает скан, конвертирует его через Importer Service,
// сохраняет и скан, и полученный план, возвращает план.
func (h *PlansHandler) ScanToPlan(c fiber.Ctx) error {
	targetID, ok := h.authorizeTarget(c)
	if !ok {
		return nil
	}

	data, filename, err := h.readJSONFile(c)
	if err != nil {
		return err
	}

	if err := h.storage.EnsureScansDir(targetID); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to prepare scans dir"})
	}
	scanPath := h.storage.ScanPath(targetID, filename)
	if err := h.storage.SaveFile(scanPath, data); err != nil {
		log.Printf("[PLANS] save scan error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	planJSON, err := h.importScan(data, filename)
	if err != nil {
		log.Printf("[PLANS] import scan error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "importer failed"})
	}

	if err := h.storage.EnsurePlansDir(targetID); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to prepare plans dir"})
	}
	planPath := h.storage.PlanPath(targetID, filename)
	if err := h.storage.SaveFile(planPath, planJSON); err != nil {
		log.Printf("[PLANS] save plan error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save plan"})
	}

	c.Set("Content-Type", "application/json")
	return c.Send(planJSON)
}

// UploadPlan сохраняет план этажа (например, после редактирования).
func (h *PlansHandler) UploadPlan(c fiber.Ctx) error {
	targetID, ok := h.authorizeTarget(c)
	if !ok {
		return nil
	}

	data, filename, err := h.readJSONFile(c)
	if err != nil {
		return err
	}

	if err := h.storage.EnsurePlansDir(targetID); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to prepare plans dir"})
	}

	path := h.storage.PlanPath(targetID, filename)
	if err := h.storage.SaveFile(path, data); err != nil {
		log.Printf("[PLANS] save plan error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"path":     path,
		"filename": filename,
	})
}

// GetPlan отдает сохраненный план.
func (h *PlansHandler) GetPlan(c fiber.Ctx) error {
	targetID, ok := h.authorizeTarget(c)
	if !ok {
		return nil
	}

	path, err := h.resolveFilePath(h.storage.PlansDir(targetID), c.Query("name"), ".json")
	if err != nil {
		return err
	}

	c.Set("Content-Type", "application/json")
	return c.SendFile(path)
}

// PlanSVG рендерит сохраненный план в SVG через Importer Service.
func (h *PlansHandler) PlanSVG(c fiber.Ctx) error {
	targetID, ok := h.authorizeTarget(c)
	if !ok {
		return nil
	}

	path, err := h.resolveFilePath(h.storage.PlansDir(targetID), c.Query("name"), ".json")
	if err != nil {
		return err
	}

	planJSON, err := os.ReadFile(path)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read plan"})
	}

	svg, err := h.renderPlan(planJSON)
	if err != nil {
		log.Printf("[PLANS] render plan error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "importer failed"})
	}

	// Рендер кешируется в svg/ под именем плана.
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := h.storage.SaveFile(h.storage.SVGPath(targetID, base+".svg"), svg); err != nil {
		log.Printf("[PLANS] cache svg error: %v", err)
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.Send(svg)
}

// ListFiles возвращает наличие файлов пользователя.
func (h *PlansHandler) ListFiles(c fiber.Ctx) error {
	targetID, ok := h.authorizeTarget(c)
	if !ok {
		return nil
	}

	return c.JSON(fiber.Map{
		"scans": listFilesWithExt(h.storage.ScansDir(targetID), ".json"),
		"plans": listFilesWithExt(h.storage.PlansDir(targetID), ".json"),
		"svg":   listFilesWithExt(h.storage.SVGDir(targetID), ".svg"),
	})
}

// ============================================================
// Helpers
// ============================================================

func (h *PlansHandler) authorize(c fiber.Ctx) (string, bool) {
	auth := c.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	userID, ok := h.sessions.Resolve(token)
	return userID, ok
}

// authorizeTarget проверяет токен и совпадение :id с владельцем токена.
// При отказе ответ уже записан, вызывающий просто возвращает nil.
func (h *PlansHandler) authorizeTarget(c fiber.Ctx) (string, bool) {
	userID, ok := h.authorize(c)
	if !ok {
		c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		return "", false
	}
	targetID := c.Params("id")
	if targetID == "" || targetID != userID {
		c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		return "", false
	}
	return targetID, true
}

func (h *PlansHandler) readJSONFile(c fiber.Ctx) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", fiber.NewError(http.StatusBadRequest, "file required")
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".json" {
		return nil, "", fiber.NewError(http.StatusBadRequest, "only json allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fiber.NewError(http.StatusInternalServerError, "failed to open file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fiber.NewError(http.StatusInternalServerError, "failed to read file")
	}

	return data, fileHeader.Filename, nil
}

func mapUser(u *models.User) userPayload {
	return userPayload{
		ID:        u.ID,
		Login:     u.Login,
		FIO:       u.FIO,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func listFilesWithExt(dir, ext string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			out = append(out, e.Name())
		}
	}
	return out
}

// importScan отправляет скан в Importer /import и возвращает план.
func (h *PlansHandler) importScan(scanData []byte, filename string) ([]byte, error) {
	if h.importerURL == "" {
		return nil, fmt.Errorf("importer url is empty")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(scanData); err != nil {
		return nil, err
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, h.importerURL+"/import", bytes.NewReader(body.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return doImporterRequest(req)
}

// renderPlan отправляет план в Importer /render и возвращает SVG.
func (h *PlansHandler) renderPlan(planJSON []byte) ([]byte, error) {
	if h.importerURL == "" {
		return nil, fmt.Errorf("importer url is empty")
	}

	req, err := http.NewRequest(http.MethodPost, h.importerURL+"/render", bytes.NewReader(planJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return doImporterRequest(req)
}

func doImporterRequest(req *http.Request) ([]byte, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("importer status %d", resp.StatusCode)
	}

	return data, nil
}

// resolveFilePath выбирает файл по имени или, если имя пустое и файлов >1, возвращает 400/404.
func (h *PlansHandler) resolveFilePath(dir, name, ext string) (string, error) {
	alts := listFilesWithExt(dir, ext)

	if name == "" {
		switch len(alts) {
		case 0:
			return "", fiber.NewError(http.StatusNotFound, "file not found")
		case 1:
			return filepath.Join(dir, alts[0]), nil
		default:
			return "", fiber.NewError(http.StatusBadRequest, "multiple files, specify name")
		}
	}

	if filepath.Ext(name) != ext {
		name += ext
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fiber.NewError(http.StatusNotFound, "file not found")
	}

	return path, nil
}

package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage раскладывает файлы пользователя:
//
//	<root>/<userID>/scans/*.json — сырые сканы RoomPlan
//	<root>/<userID>/plans/*.json — импортированные планы
//	<root>/<userID>/svg/*.svg    — отрендеренные планы
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) UserDir(userID string) string {
	return filepath.Join(s.root, userID)
}

func (s *FileStorage) ScansDir(userID string) string {
	return filepath.Join(s.UserDir(userID), "scans")
}

func (s *FileStorage) ScanPath(userID, filename string) string {
	return filepath.Join(s.ScansDir(userID), filename)
}

func (s *FileStorage) PlansDir(userID string) string {
	return filepath.Join(s.UserDir(userID), "plans")
}

func (s *FileStorage) PlanPath(userID, filename string) string {
	return filepath.Join(s.PlansDir(userID), filename)
}

func (s *FileStorage) SVGDir(userID string) string {
	return filepath.Join(s.UserDir(userID), "svg")
}

func (s *FileStorage) SVGPath(userID, filename string) string {
	return filepath.Join(s.SVGDir(userID), filename)
}

func (s *FileStorage) EnsureScansDir(userID string) error {
	if err := os.MkdirAll(s.ScansDir(userID), 0o755); err != nil {
		return fmt.Errorf("mkdir scans dir: %w", err)
	}
	return nil
}

func (s *FileStorage) EnsurePlansDir(userID string) error {
	if err := os.MkdirAll(s.PlansDir(userID), 0o755); err != nil {
		return fmt.Errorf("mkdir plans dir: %w", err)
	}
	return nil
}

func (s *FileStorage) EnsureSVGDir(userID string) error {
	if err := os.MkdirAll(s.SVGDir(userID), 0o755); err != nil {
		return fmt.Errorf("mkdir svg dir: %w", err)
	}
	return nil
}

func (s *FileStorage) SaveFile(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("mkdir target dir: %w", err)
	}
	return os.WriteFile(target, data, 0o644)
}

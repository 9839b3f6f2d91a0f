package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStorage абстрагирует хранилище файлов подтверждений платежей.
// Ядро зависит только от получения разыменовываемого URL после загрузки.
type BlobStorage interface {
	// Save сохраняет файл и возвращает непрозрачный идентификатор
	Save(originalName string, r io.Reader) (string, error)
	// PublicURL возвращает публичный URL для сохраненного файла
	PublicURL(handle string) string
}

// LocalBlobStorage хранит файлы на локальном диске; каталог раздается
// сервером статически.
type LocalBlobStorage struct {
	BaseDir string
	BaseURL string
}

// NewLocalBlobStorage создает хранилище файлов на локальном диске
func NewLocalBlobStorage(baseDir, baseURL string) (*LocalBlobStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог хранилища %s: %w", baseDir, err)
	}
	return &LocalBlobStorage{BaseDir: baseDir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save сохраняет файл под случайным именем, сохраняя расширение оригинала
func (s *LocalBlobStorage) Save(originalName string, r io.Reader) (string, error) {
	handle := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(s.BaseDir, handle)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("не удалось создать файл %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("не удалось записать файл %s: %w", path, err)
	}

	return handle, nil
}

// PublicURL возвращает публичный URL сохраненного файла
func (s *LocalBlobStorage) PublicURL(handle string) string {
	return s.BaseURL + "/" + handle
}

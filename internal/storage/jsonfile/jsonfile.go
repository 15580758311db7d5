// Package jsonfile реализует хранилище на локальных JSON-файлах —
// бэкенд по умолчанию, когда строка подключения к базе не задана.
//
// Каждая сущность живёт в своём документе: users.json, records.json,
// bonuses.json, messages.json. Запись выполняется целиком через
// временный файл и rename; конкурентные изменения внутри процесса
// сериализуются одним мьютексом.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

// Storage хранит путь к каталогу данных и мьютекс на все операции.
type Storage struct {
	dir string
	mu  sync.Mutex
}

type usersDoc struct {
	Users map[string]models.User `json:"users"`
}

type recordsDoc struct {
	Records []models.SalesRecord `json:"records"`
}

type messagesDoc struct {
	Messages []models.Message `json:"messages"`
}

// New создаёт каталог данных и недостающие документы с начальным
// содержимым, включая каталог товаров по умолчанию.
func New(dir string) (*Storage, error) {
	const op = "jsonfile.New"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s := &Storage{dir: dir}

	seeds := []struct {
		file string
		data any
	}{
		{"users.json", usersDoc{Users: map[string]models.User{}}},
		{"records.json", recordsDoc{Records: []models.SalesRecord{}}},
		{"bonuses.json", models.DefaultBonusConfig()},
		{"messages.json", messagesDoc{Messages: []models.Message{}}},
	}
	for _, seed := range seeds {
		path := filepath.Join(dir, seed.file)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := s.writeFile(seed.file, seed.data); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}
	return s, nil
}

// Close ничего не освобождает: файловых дескрипторов между вызовами нет.
func (s *Storage) Close() error { return nil }

func (s *Storage) readFile(name string, target any) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Storage) writeFile(name string, data any) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

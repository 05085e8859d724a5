package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const stateFileName = "credentials.json"

// FileStore はローカルディスク上のJSONファイルにクレデンシャルを保存するStore実装。
// 書き込みは一時ファイルへの書き出しとrenameで行い、中途半端な状態を残さない。
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore は指定ディレクトリ配下にステートファイルを持つFileStoreを生成する。
// ディレクトリが存在しない場合は作成する。
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, stateFileName)}, nil
}

// Set はキーと値をステートファイルに書き込む。
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	state[key] = value
	return s.write(state)
}

// Get はキーに対応する値を返す。存在しない場合はErrNotFound。
func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return "", err
	}
	v, ok := state[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Delete はキーをステートファイルから削除する。
// キーが存在しない場合もエラーにしない。
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := state[key]; !ok {
		return nil
	}
	delete(state, key)
	return s.write(state)
}

// read はステートファイルを読み込む。ファイル未存在は空の状態として扱う。
func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	state := map[string]string{}
	if err := json.Unmarshal(data, &state); err != nil {
		// 壊れたステートファイルは空として扱い、次の書き込みで上書きする
		return map[string]string{}, nil
	}
	return state, nil
}

// write はステートファイルをアトミックに書き換える。
func (s *FileStore) write(state map[string]string) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)

package logger

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// rotatingFile is the log file sink. It rolls the file over to numbered
// backups (path.1 is the newest) once it outgrows MaxSize or MaxAge.
type rotatingFile struct {
	mu      sync.Mutex
	config  Config
	file    *os.File
	size    int64
	created time.Time
	now     func() time.Time
}

func openRotatingFile(config Config) (*rotatingFile, error) {
	r := &rotatingFile{config: config, now: time.Now}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *rotatingFile) open() error {
	file, err := os.OpenFile(r.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return err
	}

	r.file = file
	r.size = info.Size()
	r.created = r.now()
	if r.size > 0 {
		r.created = info.ModTime()
	}
	return nil
}

// Write implements zapcore.WriteSyncer
func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.needsRotation(int64(len(p))) {
		if err := r.rotate(); err != nil {
			return 0, fmt.Errorf("failed to rotate log file: %w", err)
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *rotatingFile) needsRotation(incoming int64) bool {
	if r.size == 0 {
		return false
	}
	if r.config.MaxSize > 0 && r.size+incoming > r.config.MaxSize {
		return true
	}
	if r.config.MaxAge > 0 && r.now().Sub(r.created) > time.Duration(r.config.MaxAge)*24*time.Hour {
		return true
	}
	return false
}

// rotate shifts path.N to path.N+1, moves the current file to path.1 and
// starts a new one. Without backups the old file is discarded.
func (r *rotatingFile) rotate() error {
	if err := r.file.Close(); err != nil {
		return err
	}

	path := r.config.FilePath
	if r.config.MaxBackups > 0 {
		_ = os.Remove(fmt.Sprintf("%s.%d", path, r.config.MaxBackups))
		for i := r.config.MaxBackups - 1; i >= 1; i-- {
			_ = os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
		}
		if err := os.Rename(path, path+".1"); err != nil {
			return err
		}
	} else if err := os.Remove(path); err != nil {
		return err
	}

	return r.open()
}

// Sync implements zapcore.WriteSyncer
func (r *rotatingFile) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Sync()
}

func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}

// Package resources loads the bot's static assets from disk: user-facing
// message templates, system prompts for the model, and menu images. Assets
// are read once at startup so a missing file fails the boot, not a handler.
package resources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kovalevdev/chatmate/core/logger"
	"log/slog"
)

// Provider serves loaded assets by key. Keys are file names without the
// extension, e.g. "main_menu" for messages/main_menu.txt.
type Provider struct {
	dir      string
	messages map[string]string
	prompts  map[string]string
	images   map[string]string
}

// Load reads every asset under dir (messages/*.txt, prompts/*.txt,
// images/*) into memory and returns the provider.
func Load(dir string) (*Provider, error) {
	p := &Provider{
		dir:      dir,
		messages: make(map[string]string),
		prompts:  make(map[string]string),
		images:   make(map[string]string),
	}

	if err := p.loadTexts(filepath.Join(dir, "messages"), p.messages); err != nil {
		return nil, fmt.Errorf("resources: load messages: %w", err)
	}
	if err := p.loadTexts(filepath.Join(dir, "prompts"), p.prompts); err != nil {
		return nil, fmt.Errorf("resources: load prompts: %w", err)
	}
	if err := p.indexImages(filepath.Join(dir, "images")); err != nil {
		return nil, fmt.Errorf("resources: index images: %w", err)
	}

	logger.RES.LogAttrs(context.Background(), slog.LevelInfo, "loaded",
		slog.String("dir", dir),
		slog.Int("messages", len(p.messages)),
		slog.Int("prompts", len(p.prompts)),
		slog.Int("images", len(p.images)),
	)
	return p, nil
}

func (p *Provider) loadTexts(dir string, into map[string]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		key := strings.TrimSuffix(e.Name(), ".txt")
		into[key] = strings.TrimSpace(string(data))
	}
	return nil
}

func (p *Provider) indexImages(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		key := strings.TrimSuffix(name, filepath.Ext(name))
		p.images[key] = filepath.Join(dir, name)
	}
	return nil
}

// Message returns the user-facing text for key, or an empty string with a
// warning when the asset is absent.
func (p *Provider) Message(key string) string {
	msg, ok := p.messages[key]
	if !ok {
		logger.RES.LogAttrs(context.Background(), slog.LevelWarn, "message.missing",
			slog.String("key", key),
		)
	}
	return msg
}

// Prompt returns the system prompt for key, or an empty string when absent.
// An empty prompt is valid for Complete calls, so modes degrade gracefully.
func (p *Provider) Prompt(key string) string {
	prompt, ok := p.prompts[key]
	if !ok {
		logger.RES.LogAttrs(context.Background(), slog.LevelWarn, "prompt.missing",
			slog.String("key", key),
		)
	}
	return prompt
}

// ImagePath returns the on-disk path of the image for key and whether it
// exists.
func (p *Provider) ImagePath(key string) (string, bool) {
	path, ok := p.images[key]
	return path, ok
}

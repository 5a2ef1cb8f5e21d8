package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// ScreenShotDebugger handles debug screenshots
type ScreenShotDebugger struct {
	outputDir string
	log       *zap.Logger
}

func NewScreenShotDebugger(dir string, log *zap.Logger) *ScreenShotDebugger {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Warn("⚠️ Failed to create screenshots directory", zap.String("dir", dir), zap.Error(err))
	}
	return &ScreenShotDebugger{
		outputDir: dir,
		log:       log,
	}
}

func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))
	s.log.Info("📸 " + message)

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.log.Warn("⚠️ Failed to capture screenshot", zap.Error(err))
		return err
	}

	s.log.Info("Screenshot saved", zap.String("path", path))
	return nil
}

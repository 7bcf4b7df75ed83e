package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

const DefaultScreenshotDir = "logs/screenshots"

// ScreenShotDebugger saves full-page screenshots when a page fails to load.
type ScreenShotDebugger struct {
	outputDir string
}

func NewScreenShotDebugger(dir string) (*ScreenShotDebugger, error) {
	if dir == "" {
		dir = DefaultScreenshotDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot dir %s: %w", dir, err)
	}
	return &ScreenShotDebugger{outputDir: dir}, nil
}

// Path returns where a capture named name taken at ts is written.
func (s *ScreenShotDebugger) Path(name string, ts time.Time) string {
	filename := fmt.Sprintf("%s_%s.png", name, ts.Format("2006-01-02_15-04-05"))
	return filepath.Join(s.outputDir, filename)
}

func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	target := s.Path(name, time.Now())
	log.Printf("📸 %s", message)

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(target),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return err
	}

	log.Printf("   Screenshot saved: %s", target)
	return nil
}

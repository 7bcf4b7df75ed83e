package browser

import (
	"math/rand"

	"github.com/playwright-community/playwright-go"
)

// ScrollToBottom scrolls the whole document so lazily loaded cards render.
func ScrollToBottom(page playwright.Page) error {
	_, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return err
}

// MouseJiggle moves the pointer to a couple of random viewport positions.
func MouseJiggle(page playwright.Page) error {
	width, height := 1000, 700
	if vp := page.ViewportSize(); vp != nil && vp.Width > 0 && vp.Height > 0 {
		width, height = vp.Width, vp.Height
	}
	for i := 0; i < 2; i++ {
		x := float64(rand.Intn(width))
		y := float64(rand.Intn(height))
		if err := page.Mouse().Move(x, y); err != nil {
			return err
		}
	}
	return nil
}

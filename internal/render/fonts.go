package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

var (
	fontOnce    sync.Once
	captionFont *opentype.Font
	fontErr     error
)

// captionTypeface lazily parses the embedded bold typeface used for burned-in
// captions. The catalog's font family names style the browser UI; the
// compositor always burns captions with this face.
func captionTypeface() (*opentype.Font, error) {
	fontOnce.Do(func() {
		captionFont, fontErr = opentype.Parse(gobold.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("parse caption typeface: %w", fontErr)
		}
	})
	return captionFont, fontErr
}

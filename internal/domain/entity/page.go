package entity

import (
	"encoding/base64"
	"fmt"
)

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

func (s *Screenshot) Base64() string {
	return base64.StdEncoding.EncodeToString(s.Data)
}

// DataURL renders the screenshot in the form accepted by image message parts.
func (s *Screenshot) DataURL() string {
	return fmt.Sprintf("data:image/%s;base64,%s", s.Format, s.Base64())
}

type WindowSize struct {
	Width  int
	Height int
}

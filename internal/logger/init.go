package logger

import (
	"os"
)

// InitPterm points every diagnostic printer at stderr so stdout only carries
// command output (tables, book details).
func InitPterm() {
	RedirectTo(os.Stderr)
}

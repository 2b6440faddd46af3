package classify

import (
	"testing"

	"github.com/keepsakeapp/keepsake-server/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		want     domain.MediaType
	}{
		{"beach.jpg", domain.MediaTypePhoto},
		{"beach.jpeg", domain.MediaTypePhoto},
		{"icon.png", domain.MediaTypePhoto},
		{"anim.gif", domain.MediaTypePhoto},
		{"scan.bmp", domain.MediaTypePhoto},
		{"modern.webp", domain.MediaTypePhoto},
		{"clip.mp4", domain.MediaTypeVideo},
		{"old.avi", domain.MediaTypeVideo},
		{"apple.mov", domain.MediaTypeVideo},
		{"rip.mkv", domain.MediaTypeVideo},
		{"web.webm", domain.MediaTypeVideo},
		{"taxes.pdf", domain.MediaTypeDocument},
		{"notes.txt", domain.MediaTypeDocument},
		{"report.xyz", domain.MediaTypeDocument},
		{"noextension", domain.MediaTypeDocument},
		{"", domain.MediaTypeDocument},

		// Case-insensitive.
		{"photo.JPG", domain.MediaTypePhoto},
		{"PHOTO.JpEg", domain.MediaTypePhoto},
		{"CLIP.MP4", domain.MediaTypeVideo},

		// Only the final extension counts.
		{"archive.tar.gz", domain.MediaTypeDocument},
		{"holiday.backup.jpg", domain.MediaTypePhoto},

		// Dotfiles and trailing dots.
		{".hidden", domain.MediaTypeDocument},
		{"file.", domain.MediaTypeDocument},
	}

	for _, tt := range tests {
		if got := Classify(tt.filename); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

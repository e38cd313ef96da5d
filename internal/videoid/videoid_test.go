package videoid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"music watch", "https://music.youtube.com/watch?v=abc_DEF-123", "abc_DEF-123", true},
		{"shortlink", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1", "dQw4w9WgXcQ", true},
		{"v path", "http://youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"longer id truncated to eleven", "https://youtu.be/dQw4w9WgXcQXYZ", "dQw4w9WgXcQ", true},
		{"empty", "", "", false},
		{"too short", "https://www.youtube.com/watch?v=short", "", false},
		{"channel url", "https://www.youtube.com/channel/UC1234567890", "", false},
		{"post url", "https://www.youtube.com/post/Ugkx123", "", false},
		{"other host", "https://vimeo.com/123456789", "", false},
		{"v not first param", "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Extract(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
			if ok {
				assert.True(t, Valid(id))
				assert.Len(t, id, Len)
			}
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	urls := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/aaaaaaaaaaa",
		"https://example.com/",
		"",
	}
	for _, u := range urls {
		id1, ok1 := Extract(u)
		id2, ok2 := Extract(u)
		assert.Equal(t, id1, id2)
		assert.Equal(t, ok1, ok2)
	}
}

func TestExtract_FirstPatternWins(t *testing.T) {
	// Both the watch and embed shapes are present; the watch pattern has priority.
	id, ok := Extract("https://www.youtube.com/embed/EEEEEEEEEEE?next=youtube.com/watch?v=WWWWWWWWWWW")
	assert.True(t, ok)
	assert.Equal(t, "WWWWWWWWWWW", id)
}

func TestWatchURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", WatchURL("dQw4w9WgXcQ"))
	id, ok := Extract(WatchURL("dQw4w9WgXcQ"))
	assert.True(t, ok)
	assert.Equal(t, "dQw4w9WgXcQ", id)
}

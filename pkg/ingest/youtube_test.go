package ingest

import (
	"testing"

	"synaptiq-be/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoId(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "watch url",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "short link",
			url:  "https://youtu.be/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "shorts url",
			url:  "https://www.youtube.com/shorts/abc123",
			want: "abc123",
		},
		{
			name: "embed url",
			url:  "https://www.youtube.com/embed/abc123",
			want: "abc123",
		},
		{
			name:    "not a youtube url",
			url:     "https://example.com/watch?v=abc",
			wantErr: true,
		},
		{
			name:    "watch url without id",
			url:     "https://www.youtube.com/watch",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := extractVideoId(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/trailplot/pkg/types"
)

func TestShortIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{
			name: "distinct timestamps",
			ids:  []string{"0190a1b2-0000-7000-8000-000000000001", "0190a1b3-0000-7000-8000-000000000002"},
			want: []string{"0190a1b2", "0190a1b3"},
		},
		{
			name: "same leading timestamp",
			ids:  []string{"0190a1b2-c3d4-7000-8000-000000000001", "0190a1b2-c3e5-7000-8000-000000000002"},
			want: []string{"0190a1b2-c3d", "0190a1b2-c3e"},
		},
		{
			name: "single session",
			ids:  []string{"0190a1b2-c3d4-7000-8000-000000000001"},
			want: []string{"0190a1b2"},
		},
		{
			name: "id shorter than minimum",
			ids:  []string{"abc"},
			want: []string{"abc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := make([]types.Session, len(tt.ids))
			for i, id := range tt.ids {
				sessions[i] = types.Session{SessionID: id}
			}
			got := shortIDs(sessions)
			assert.Equal(t, tt.want, got)

			for i, short := range got {
				for j, s := range sessions {
					if i != j {
						assert.False(t, strings.HasPrefix(s.SessionID, short), "prefix %q is shared", short)
					}
				}
			}
		})
	}
}

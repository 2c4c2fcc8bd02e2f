package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/devtop/internal/feedclient"
)

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not ready",
			err:  &feedclient.ClientError{Kind: feedclient.KindNotReady, Err: errors.New("503")},
			want: "server is still warming up, try again shortly",
		},
		{
			name: "timeout",
			err:  &feedclient.ClientError{Kind: feedclient.KindTimeout, Err: errors.New("deadline")},
			want: "server timed out",
		},
		{
			name: "unreachable",
			err:  &feedclient.ClientError{Kind: feedclient.KindUnreachable, Err: errors.New("refused")},
			want: "server unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, friendlyError(tt.err), tt.want)
		})
	}
}

func TestFriendlyError_PassesThroughUnknownErrors(t *testing.T) {
	plain := errors.New("something else")
	assert.Same(t, plain, friendlyError(plain))

	malformed := &feedclient.ClientError{Kind: feedclient.KindMalformed, Err: errors.New("bad json")}
	assert.Equal(t, malformed, friendlyError(malformed))
}

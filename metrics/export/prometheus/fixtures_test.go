package prometheus

import (
	"context"

	"github.com/MrEthical07/goSession/session"
)

type emptyStore struct{}

func (emptyStore) Token(context.Context) (string, error) { return "", session.ErrNoSession }

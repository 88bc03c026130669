package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/darshanscodesoftwares/chess-arbiter/model"
)

func (c *controller) AddArbiter(ctx context.Context, name, email, phone string) (*model.Arbiter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("arbiter name must be provided")
	}

	a := &model.Arbiter{
		Name:  name,
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
	}
	if err := c.db.AddArbiter(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (c *controller) ListArbiters(ctx context.Context) ([]model.Arbiter, error) {
	return c.db.ListArbiters(ctx)
}

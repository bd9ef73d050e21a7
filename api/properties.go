package api

import (
	"context"

	"github.com/tcriess/openfire-admin/types"
)

// SystemProperties is read-only.
type SystemProperties struct {
	r Requester
}

func NewSystemProperties(r Requester) *SystemProperties {
	return &SystemProperties{r: r}
}

func (p *SystemProperties) List(ctx context.Context) ([]types.SystemProperty, error) {
	body, err := p.r.Get(ctx, "system/properties", nil)
	if err != nil {
		return nil, err
	}
	props := make([]types.SystemProperty, 0)
	if err := decodeList(body, &props, "property"); err != nil {
		return nil, err
	}
	return props, nil
}

func (p *SystemProperties) Get(ctx context.Context, key string) (*types.SystemProperty, error) {
	body, err := p.r.Get(ctx, "system/properties/"+segment(key), nil)
	if err != nil {
		return nil, err
	}
	prop := types.SystemProperty{}
	if err := decodeObject(body, &prop); err != nil {
		return nil, err
	}
	return &prop, nil
}

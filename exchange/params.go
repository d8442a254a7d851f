package exchange

import (
	"encoding/json"
	"fmt"

	"github.com/backkem/pake-exchange/spake2"
	"github.com/mitchellh/mapstructure"
)

// Params configures one side of the exchange. Code and AppID must be
// byte-identical on both peers; Side only labels this peer's messages.
type Params struct {
	Code  string `mapstructure:"code"`
	AppID string `mapstructure:"app_id"`
	Side  string `mapstructure:"side"`
}

// Validate reports whether the parameters can drive an exchange.
func (p Params) Validate() error {
	if p.Code == "" {
		return fmt.Errorf("%w: code must be non-empty", spake2.ErrInvalidParameters)
	}
	if p.AppID == "" {
		return fmt.Errorf("%w: app id must be non-empty", spake2.ErrInvalidParameters)
	}
	if p.Side == "" {
		return fmt.Errorf("%w: side must be non-empty", spake2.ErrInvalidParameters)
	}
	return nil
}

// ParamsFromJSON decodes a JSON document of the form
//
//	{"code": "...", "app_id": "...", "side": "..."}
//
// into Params. Unknown keys are ignored.
func ParamsFromJSON(data []byte) (Params, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Params{}, fmt.Errorf("failed to parse params document: %w", err)
	}
	var p Params
	if err := mapstructure.Decode(raw, &p); err != nil {
		return Params{}, fmt.Errorf("failed to map params document: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

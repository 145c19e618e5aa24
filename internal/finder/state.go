package finder

import (
	"fmt"
	"strings"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
)

type State int

const (
	AwaitingInput State = iota
	AwaitingResponse
	Displaying
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case AwaitingResponse:
		return "awaiting_response"
	case Displaying:
		return "displaying"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Form is what the user filled in. Minutes is clamped on submit.
type Form struct {
	Name    string
	Address string
	Mode    model.TransportMode
	Minutes int
}

// ParseForm builds a Form from raw text input. Minutes are clamped the way a
// number field would be; an unknown mode is an error.
func ParseForm(address, mode, minutes string) (Form, error) {
	m, err := model.ParseTransportMode(mode)
	if err != nil {
		return Form{}, err
	}
	return Form{
		Address: strings.TrimSpace(address),
		Mode:    m,
		Minutes: model.ClampMinutesString(minutes),
	}, nil
}

// Request is the proxy payload for f.
func (f Form) Request() model.ResourceRequest {
	return model.ResourceRequest{
		Address: f.Address,
		Mode:    f.Mode.Token(),
		Minutes: model.Minutes(model.ClampMinutes(f.Minutes)),
	}
}

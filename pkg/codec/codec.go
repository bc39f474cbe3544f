// Package codec turns JSON action envelopes into typed domain.Action values.
//
// Reducers type-switch on payloads, so an action arriving over the wire must
// carry the same Go type as one built by an action creator. The Registry maps
// each action type to a payload prototype and decodes into it.
package codec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// envelope is the wire form of an action.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
	Error   any    `json:"error"`
	Meta    any    `json:"meta"`
}

// Registry maps action types to payload prototypes. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type // nil value: no payload
}

// NewRegistry creates a registry preloaded with the given payload tables.
func NewRegistry(tables ...map[string]any) *Registry {
	r := &Registry{types: make(map[string]reflect.Type)}
	for _, t := range tables {
		for actionType, proto := range t {
			r.Register(actionType, proto)
		}
	}
	return r
}

// Register associates actionType with the type of prototype.
// A nil prototype marks an action without payload.
func (r *Registry) Register(actionType string, prototype any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prototype == nil {
		r.types[actionType] = nil
		return
	}
	r.types[actionType] = reflect.TypeOf(prototype)
}

// Types returns the registered action types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for t := range r.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Decode parses a JSON envelope into an Action.
// Payloads of registered types are decoded into their Go type; unregistered
// types keep the generic JSON value. Errors wrap domain.ErrMalformedAction.
func (r *Registry) Decode(data []byte) (domain.Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return domain.Action{}, fmt.Errorf("%w: %v", domain.ErrMalformedAction, err)
	}
	return r.FromMap(env.Type, env.Payload, env.Error, env.Meta)
}

// FromMap builds an Action from already parsed JSON values.
func (r *Registry) FromMap(actionType string, payload, actionErr, meta any) (domain.Action, error) {
	action := domain.Action{Type: actionType, Meta: meta}
	if err := action.Validate(); err != nil {
		return domain.Action{}, err
	}

	r.mu.RLock()
	typ, known := r.types[actionType]
	r.mu.RUnlock()

	switch {
	case !known:
		action.Payload = payload
	case typ != nil && payload != nil:
		decoded, err := decodeInto(typ, payload)
		if err != nil {
			return domain.Action{}, fmt.Errorf("%w: payload of %s: %v", domain.ErrMalformedAction, actionType, err)
		}
		action.Payload = decoded
	}

	if actionErr != nil {
		action.Error = toSerializedError(actionErr)
	}
	return action, nil
}

func decodeInto(typ reflect.Type, input any) (any, error) {
	target := reflect.New(typ)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      target.Interface(),
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(input); err != nil {
		return nil, err
	}
	return target.Elem().Interface(), nil
}

func toSerializedError(v any) domain.SerializedError {
	switch e := v.(type) {
	case string:
		return domain.SerializedError{Message: e}
	case map[string]any:
		var se domain.SerializedError
		if err := mapstructure.Decode(e, &se); err == nil && se.Message != "" {
			return se
		}
		if msg, ok := e["message"].(string); ok {
			return domain.SerializedError{Message: msg}
		}
	}
	return domain.SerializedError{Message: fmt.Sprintf("%v", v)}
}

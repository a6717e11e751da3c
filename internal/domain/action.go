package domain

import (
	"fmt"
	"strings"
)

// ActionKind tags the variant carried by an Action
type ActionKind int

const (
	ActionShowCategory ActionKind = iota + 1
	ActionSelectItem
	ActionControl
)

// Control is a fixed navigation or cart command
type Control string

const (
	ControlCart            Control = "cart"
	ControlClear           Control = "clear_cart"
	ControlSubmit          Control = "send_order"
	ControlBackMain        Control = "back_main"
	ControlBackCategory    Control = "categories"
	ControlShoppingRequest Control = "shopping"
	ControlSurpriseRequest Control = "surprise"
)

const (
	tagCategory = "cat"
	tagItem     = "item"
	separator   = "|"
)

var controls = map[Control]struct{}{
	ControlCart:            {},
	ControlClear:           {},
	ControlSubmit:          {},
	ControlBackMain:        {},
	ControlBackCategory:    {},
	ControlShoppingRequest: {},
	ControlSurpriseRequest: {},
}

// Action is the decoded meaning of an inline button press
type Action struct {
	Kind     ActionKind
	Control  Control
	Category string
	Item     string
}

// ShowCategory builds the action that opens a category's item list
func ShowCategory(key string) Action {
	return Action{Kind: ActionShowCategory, Category: key}
}

// SelectItem builds the action that adds an item to the cart
func SelectItem(category, item string) Action {
	return Action{Kind: ActionSelectItem, Category: category, Item: item}
}

// ControlAction builds a fixed control action
func ControlAction(c Control) Action {
	return Action{Kind: ActionControl, Control: c}
}

// Unique returns the telebot button unique, i.e. the token tag
func (a Action) Unique() string {
	switch a.Kind {
	case ActionShowCategory:
		return tagCategory
	case ActionSelectItem:
		return tagItem
	default:
		return string(a.Control)
	}
}

// Payload returns the data segments following the tag
func (a Action) Payload() []string {
	switch a.Kind {
	case ActionShowCategory:
		return []string{a.Category}
	case ActionSelectItem:
		return []string{a.Category, a.Item}
	default:
		return nil
	}
}

// Encode returns the token in "<tag>|<payload>" form
func (a Action) Encode() string {
	return strings.Join(append([]string{a.Unique()}, a.Payload()...), separator)
}

// CallbackData returns the token as telebot puts it on the wire
func (a Action) CallbackData() string {
	return "\f" + a.Encode()
}

// ParseAction decodes callback data. The first segment is matched exactly
// against the tag space, so no tag can shadow another.
func ParseAction(data string) (Action, error) {
	data = cleanCallbackData(data)
	if data == "" {
		return Action{}, ErrUnknownAction
	}

	parts := strings.SplitN(data, separator, 3)
	switch parts[0] {
	case tagCategory:
		if len(parts) != 2 || parts[1] == "" {
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, data)
		}
		return ShowCategory(parts[1]), nil
	case tagItem:
		if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, data)
		}
		return SelectItem(parts[1], parts[2]), nil
	}

	if len(parts) == 1 {
		if _, ok := controls[Control(parts[0])]; ok {
			return ControlAction(Control(parts[0])), nil
		}
	}
	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, data)
}

// cleanCallbackData strips telebot's leading \f marker and surrounding ASCII
// whitespace or control bytes. Inner runes are kept as is, so item names with
// NBSP or zero-width joiners survive the round trip.
func cleanCallbackData(data string) string {
	return strings.TrimFunc(data, func(r rune) bool {
		return r <= ' ' || r == 0x7f
	})
}

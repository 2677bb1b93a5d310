package action

// Option is a navigation option tuple: a short code followed by its values.
type Option []any

// Navigation option codes.
const (
	OptionHistory  = "HI" // ["HI", bool]
	OptionHead     = "HD" // ["HD", bool]
	OptionBody     = "BO" // ["BO", bool]
	OptionElements = "EL" // ["EL", id...]
	OptionScroll   = "SC" // ["SC", id]
	OptionHeader   = "HR" // ["HR", name, value]
)

func WithHistory(push bool) Option { return Option{OptionHistory, push} }

func WithHead(update bool) Option { return Option{OptionHead, update} }

func WithBody(update bool) Option { return Option{OptionBody, update} }

// WithElements restricts the body update to the elements with the given ids.
func WithElements(ids ...string) Option {
	opt := Option{OptionElements}
	for _, id := range ids {
		opt = append(opt, id)
	}
	return opt
}

// WithScroll scrolls the element with the given id into view; "" is the document root.
func WithScroll(id string) Option { return Option{OptionScroll, id} }

func WithHeader(name, value string) Option { return Option{OptionHeader, name, value} }

package render

// Error is a constant error value.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNoDevice is returned when a GPU resource is requested while no
	// graphics context is attached.
	ErrNoDevice = Error("render: no graphics context")

	// ErrInvalidSize is returned for non-positive render target dimensions.
	ErrInvalidSize = Error("render: invalid size")
)

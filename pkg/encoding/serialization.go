package encoding

// Serializable is implemented by values with a fixed binary form.
type Serializable interface {
	Serialize() ([]byte, error)
	Deserialize([]byte) error
}

package codec

import (
	fieldUsecase "github.com/allisson/cryptfields/internal/field/usecase"
)

// NewTextCodec creates a Codec for string values. Decode returns a string.
func NewTextCodec(cryptor fieldUsecase.FieldCryptor) Codec {
	return &fieldCodec{cryptor: cryptor, text: textFormatter{}}
}

type textFormatter struct{}

func (textFormatter) name() string { return "text" }

func (textFormatter) format(value any) (string, bool, error) {
	switch v := value.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, v != "", nil
	case *string:
		if v == nil {
			return "", false, nil
		}
		return *v, *v != "", nil
	default:
		return "", false, &InvalidValueTypeError{Expected: "string", Got: value}
	}
}

func (textFormatter) parse(text string) (any, error) {
	return text, nil
}

package transaction

import (
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// Kind distinguishes a paid sale from a free donation of surplus goods.
type Kind int

const (
	UnknownKind Kind = iota
	Sale
	Donation
)

var kindNames = map[Kind]string{
	Sale:     "SALE",
	Donation: "DONATION",
}

func ParseKind(s string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for kind, n := range kindNames {
		if n == name {
			return kind, nil
		}
	}
	return UnknownKind, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a valid transaction kind", s))
}

func (k Kind) Validate() error {
	if _, ok := kindNames[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a valid kind", k))
	}
	return nil
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

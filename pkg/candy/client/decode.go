package client

import (
	"encoding/json"
	"fmt"

	candyerrors "github.com/provide-io/candy/go/candy/pkg/candy/errors"
	"github.com/provide-io/candy/go/candy/pkg/candy/operations"
)

// DecodeResponse undoes the wire encoding of a status body and parses the
// JSON document inside. With useEncryption and an empty key the body is only
// hex-decoded.
func DecodeResponse(body []byte, useEncryption bool, key []byte) (map[string]any, error) {
	ids := operations.WireChain(useEncryption, len(key) > 0)
	ops, err := operations.Resolve(ids, key)
	if err != nil {
		return nil, err
	}

	plain, err := operations.ReverseChain(body, ops)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", candyerrors.ErrMalformedResponse, operations.OperationsToString(ids), err)
	}

	var doc map[string]any
	if err := json.Unmarshal(plain, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", candyerrors.ErrMalformedResponse, err)
	}
	return doc, nil
}

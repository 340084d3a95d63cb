package modules

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/microrpc/hostlink/internal/engine"
	"github.com/microrpc/hostlink/internal/hosterr"
	"github.com/microrpc/hostlink/internal/prot"
)

// unmarshalRequest unmarshals the request payload into v, wrapping any error
// with the invalid-JSON status so the peer sees a precise error record.
func unmarshalRequest(r *engine.Request, v interface{}) error {
	if err := json.Unmarshal(r.Message, v); err != nil {
		return hosterr.WrapStatus(errors.Wrapf(err, "failed to unmarshal JSON in message \"%s\"", r.Message), prot.StatusInvalidJSON)
	}
	return nil
}

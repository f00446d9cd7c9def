package postgres

import (
	"database/sql"
	"errors"

	sonic "github.com/bytedance/sonic"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// marshalJSONB renders a value for a jsonb column. A nil value becomes SQL
// NULL rather than the JSON literal null.
func marshalJSONB(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// unmarshalJSONB fills v from a jsonb column, treating NULL and empty as
// absent.
func unmarshalJSONB(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return sonic.Unmarshal(data, v)
}

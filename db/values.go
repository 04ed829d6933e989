// ABOUTME: JSON column helpers for custom values and string lists
// ABOUTME: Converts model fields to and from nullable TEXT columns
package db

import (
	"database/sql"
	"encoding/json"

	"github.com/mkarcz/prospekt/models"
)

func marshalCustomValues(values models.CustomValues) (*string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

func scanCustomValues(col sql.NullString) (models.CustomValues, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var values models.CustomValues
	if err := json.Unmarshal([]byte(col.String), &values); err != nil {
		return nil, err
	}
	return values, nil
}

func marshalStrings(list []string) (*string, error) {
	if len(list) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

func scanStrings(col sql.NullString) ([]string, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(col.String), &list); err != nil {
		return nil, err
	}
	return list, nil
}

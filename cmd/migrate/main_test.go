package main

import (
	"net/http"
	"testing"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
)

func TestTransactionsSchema(t *testing.T) {
	want := map[string]bigquery.FieldType{
		"transaction_id":  bigquery.StringFieldType,
		"txn_date":        bigquery.DateFieldType,
		"name":            bigquery.StringFieldType,
		"amount":          bigquery.FloatFieldType,
		"category":        bigquery.StringFieldType,
		"necessity_score": bigquery.FloatFieldType,
		"created_ts":      bigquery.TimestampFieldType,
	}

	if len(transactionsSchema) != len(want) {
		t.Fatalf("schema has %d fields, want %d", len(transactionsSchema), len(want))
	}
	for _, field := range transactionsSchema {
		wantType, ok := want[field.Name]
		if !ok {
			t.Errorf("unexpected field %q", field.Name)
			continue
		}
		if field.Type != wantType {
			t.Errorf("field %q type = %s, want %s", field.Name, field.Type, wantType)
		}
	}

	for _, field := range transactionsSchema {
		switch field.Name {
		case "transaction_id", "txn_date":
			if !field.Required {
				t.Errorf("field %q should be required", field.Name)
			}
		default:
			if field.Required {
				t.Errorf("field %q should be nullable", field.Name)
			}
		}
	}
}

func TestAlreadyExists(t *testing.T) {
	if !alreadyExists(&googleapi.Error{Code: http.StatusConflict}) {
		t.Error("409 should count as already exists")
	}
	if alreadyExists(&googleapi.Error{Code: http.StatusForbidden}) {
		t.Error("403 should not count as already exists")
	}
	if alreadyExists(nil) {
		t.Error("nil error should not count as already exists")
	}
}

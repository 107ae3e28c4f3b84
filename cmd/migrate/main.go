// Command migrate creates the BigQuery dataset and transactions table
// used by the bigquery store backend. It is idempotent: existing
// objects are left untouched.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
)

var (
	projectID = flag.String("project", "", "GCP project ID (required)")
	datasetID = flag.String("dataset", "rewards", "BigQuery dataset ID")
	location  = flag.String("location", "US", "BigQuery dataset location")
)

const transactionsTable = "transactions"

// transactionsSchema mirrors the row type written by the bigquery store.
var transactionsSchema = bigquery.Schema{
	{Name: "transaction_id", Type: bigquery.StringFieldType, Required: true},
	{Name: "txn_date", Type: bigquery.DateFieldType, Required: true},
	{Name: "name", Type: bigquery.StringFieldType},
	{Name: "amount", Type: bigquery.FloatFieldType},
	{Name: "category", Type: bigquery.StringFieldType},
	{Name: "necessity_score", Type: bigquery.FloatFieldType},
	{Name: "created_ts", Type: bigquery.TimestampFieldType},
}

func main() {
	flag.Parse()

	if *projectID == "" {
		log.Fatal("Error: -project flag is required. Please specify your GCP project ID.")
	}

	ctx := context.Background()

	client, err := bigquery.NewClient(ctx, *projectID)
	if err != nil {
		log.Fatalf("Failed to create BigQuery client: %v", err)
	}
	defer client.Close()

	log.Printf("Connected to BigQuery project: %s, dataset: %s", *projectID, *datasetID)

	dataset := client.Dataset(*datasetID)
	if err := dataset.Create(ctx, &bigquery.DatasetMetadata{Location: *location}); err != nil {
		if !alreadyExists(err) {
			log.Fatalf("Failed to create dataset: %v", err)
		}
		log.Printf("  [SKIP] dataset %s (already exists)", *datasetID)
	} else {
		log.Printf("  [OK]   created dataset %s", *datasetID)
	}

	table := dataset.Table(transactionsTable)
	if err := table.Create(ctx, &bigquery.TableMetadata{Schema: transactionsSchema}); err != nil {
		if !alreadyExists(err) {
			log.Fatalf("Failed to create table: %v", err)
		}
		log.Printf("  [SKIP] table %s (already exists)", transactionsTable)
	} else {
		log.Printf("  [OK]   created table %s", transactionsTable)
	}

	log.Println("Migration complete.")
}

func alreadyExists(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict
}

// Package es provides the Elasticsearch client used as the vector store.
package es

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"konsul-pajak-go/internal/config"
	"konsul-pajak-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
)

var ESClient *elasticsearch.Client

// InitES creates the Elasticsearch client and makes sure the document
// collection exists. A missing index is created, never treated as an error.
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return EnsureIndex(client, esCfg.IndexName, esCfg.VectorDims)
}

// EnsureIndex creates the tax-document index when it does not exist yet.
// The mapping mirrors the out-of-band ingestion pipeline: one passage per
// document with its embedding and regulation metadata.
func EnsureIndex(client *elasticsearch.Client, indexName string, vectorDims int) error {
	res, err := client.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("failed to check whether index '%s' exists: %v", indexName, err)
		return err
	}
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("index '%s' already exists", indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("unexpected status %d while checking index '%s'", res.StatusCode, indexName)
		return fmt.Errorf("unexpected status while checking index: %d", res.StatusCode)
	}

	if vectorDims <= 0 {
		vectorDims = 1536
	}
	mapping := fmt.Sprintf(`{
		"mappings": {
			"properties": {
				"text_content": { "type": "text" },
				"vector": {
					"type": "dense_vector",
					"dims": %d,
					"index": true,
					"similarity": "cosine"
				},
				"title": { "type": "keyword" },
				"source": { "type": "keyword" },
				"uu": { "type": "keyword" },
				"page": { "type": "integer" }
			}
		}
	}`, vectorDims)

	res, err = client.Indices.Create(
		indexName,
		client.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("failed to create index '%s': %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("Elasticsearch returned an error creating index '%s': %s", indexName, res.String())
		return errors.New("elasticsearch returned an error creating index")
	}

	log.Infof("index '%s' created", indexName)
	return nil
}

// Package codec converts snapshots to and from the per-component JSON
// buckets shared by every persistence backend.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"catalogcore/pkg/domain"
)

// Bucket names, one per authoritative component.
const (
	BucketProducts        = "products"
	BucketInventory       = "inventory"
	BucketRecommendations = "recommendations"
	BucketSupplyChain     = "supply_chain"
)

// Buckets lists every bucket in write order.
var Buckets = []string{BucketProducts, BucketInventory, BucketRecommendations, BucketSupplyChain}

var errEmptyPayload = errors.New("empty payload")

func isBucket(name string) bool { return slices.Contains(Buckets, name) }

// Bucket is one encoded component.
type Bucket struct {
	Name    string
	Payload []byte
}

type supplyChainDoc struct {
	Suppliers []domain.Supplier   `json:"suppliers"`
	Links     []domain.SupplyLink `json:"links"`
}

// Encode serialises each component of the snapshot into its bucket.
func Encode(s domain.Snapshot) ([]Bucket, error) {
	products := s.Products
	if products == nil {
		products = []domain.Product{}
	}
	inventory := s.Inventory
	if inventory == nil {
		inventory = map[string]int{}
	}
	edges := s.Edges
	if edges == nil {
		edges = []domain.CoPurchaseEdge{}
	}
	sc := supplyChainDoc{Suppliers: s.Suppliers, Links: s.Links}
	if sc.Suppliers == nil {
		sc.Suppliers = []domain.Supplier{}
	}
	if sc.Links == nil {
		sc.Links = []domain.SupplyLink{}
	}
	out := make([]Bucket, 0, len(Buckets))
	for _, name := range Buckets {
		var (
			data []byte
			err  error
		)
		switch name {
		case BucketProducts:
			data, err = marshal(products)
		case BucketInventory:
			data, err = marshal(inventory)
		case BucketRecommendations:
			data, err = marshal(edges)
		case BucketSupplyChain:
			data, err = marshal(sc)
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		out = append(out, Bucket{Name: name, Payload: data})
	}
	return out, nil
}

// Decode rebuilds a snapshot from raw bucket payloads. Buckets absent from
// payloads decode as empty components; unknown buckets are ignored. A
// present but empty or malformed payload is a storage failure.
func Decode(payloads map[string][]byte) (domain.Snapshot, error) {
	var s domain.Snapshot
	for name, data := range payloads {
		if !isBucket(name) {
			continue
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return domain.Snapshot{}, domain.StorageFailure("decode "+name, errEmptyPayload)
		}
		var err error
		switch name {
		case BucketProducts:
			err = json.Unmarshal(data, &s.Products)
		case BucketInventory:
			err = json.Unmarshal(data, &s.Inventory)
		case BucketRecommendations:
			err = json.Unmarshal(data, &s.Edges)
		case BucketSupplyChain:
			var sc supplyChainDoc
			err = json.Unmarshal(data, &sc)
			s.Suppliers, s.Links = sc.Suppliers, sc.Links
		}
		if err != nil {
			return domain.Snapshot{}, domain.StorageFailure("decode "+name, err)
		}
	}
	return s, nil
}

// FileName returns the file/object name used for a bucket.
func FileName(bucket string) string { return bucket + ".json" }

func marshal(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

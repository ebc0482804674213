// Package qdrant provides a knowledge store backed by a Qdrant
// vector-similarity service over gRPC. Qdrant returns pre-ranked
// matches, which suits larger, persisted corpora.
package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/counsel-labs/lexora/internal/core/domain"
	"github.com/counsel-labs/lexora/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.KnowledgeStore = (*Store)(nil)

// defaultRankLimit caps unbounded rank calls; Qdrant requires a limit.
const defaultRankLimit = 100

// Store is a Qdrant-backed implementation of driven.KnowledgeStore.
// Every call carries its own deadline so a stalled Qdrant node cannot
// hang a ranking request or an indexing worker.
type Store struct {
	conn       *grpc.ClientConn
	points     pb.PointsClient
	collection string
	timeout    time.Duration
}

// NewStore connects to Qdrant at host:port for the given collection.
// timeout bounds each call; zero disables the per-call deadline.
func NewStore(host string, port int, collection string, timeout time.Duration) (*Store, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}
	return &Store{
		conn:       conn,
		points:     pb.NewPointsClient(conn),
		collection: collection,
		timeout:    timeout,
	}, nil
}

// deadline derives the per-call context.
func (s *Store) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// AddPassages upserts passages as points. Point IDs are UUIDv5 hashes
// of the passage ID, so re-ingesting the same passages overwrites the
// existing points instead of duplicating them.
func (s *Store) AddPassages(ctx context.Context, passages []domain.Passage) error {
	ctx, cancel := s.deadline(ctx)
	defer cancel()

	points := make([]*pb.PointStruct, len(passages))
	for i, p := range passages {
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: pointID(p.ID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: p.Embedding}},
			},
			Payload: map[string]*pb.Value{
				"passage_id":  stringValue(p.ID),
				"document_id": stringValue(p.DocumentID),
				"title":       stringValue(p.Title),
				"content":     stringValue(p.Content),
				"category":    stringValue(p.Category),
				"source":      stringValue(p.Source),
			},
		}
	}

	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return rpcErr("upsert", err)
	}
	return nil
}

// Rank delegates similarity search to Qdrant, which returns matches
// already ordered best-first.
func (s *Store) Rank(ctx context.Context, query []float32, nResults int) ([]domain.SimilarityResult, error) {
	ctx, cancel := s.deadline(ctx)
	defer cancel()

	limit := nResults
	if limit <= 0 {
		limit = defaultRankLimit
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         query,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, rpcErr("search", err)
	}

	results := make([]domain.SimilarityResult, len(resp.Result))
	for i, pt := range resp.Result {
		r := domain.SimilarityResult{Score: float64(pt.Score)}
		for k, v := range pt.Payload {
			switch k {
			case "passage_id":
				r.PassageID = v.GetStringValue()
			case "title":
				r.Title = v.GetStringValue()
			case "content":
				r.Content = v.GetStringValue()
			case "category":
				r.Category = v.GetStringValue()
			case "source":
				r.Source = v.GetStringValue()
			}
		}
		results[i] = r
	}
	return results, nil
}

// Count returns the number of points in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx, cancel := s.deadline(ctx)
	defer cancel()

	resp, err := s.points.Count(ctx, &pb.CountPoints{
		CollectionName: s.collection,
	})
	if err != nil {
		return 0, rpcErr("count", err)
	}
	return int(resp.Result.Count), nil
}

// DeleteByDocument removes every point whose payload carries the
// document ID.
func (s *Store) DeleteByDocument(ctx context.Context, documentID string) error {
	ctx, cancel := s.deadline(ctx)
	defer cancel()

	_, err := s.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: s.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: &pb.Filter{
					Must: []*pb.Condition{{
						ConditionOneOf: &pb.Condition_Field{
							Field: &pb.FieldCondition{
								Key: "document_id",
								Match: &pb.Match{
									MatchValue: &pb.Match_Keyword{Keyword: documentID},
								},
							},
						},
					}},
				},
			},
		},
	})
	if err != nil {
		return rpcErr("delete", err)
	}
	return nil
}

// rpcErr wraps a gRPC failure. Deadline expiry comes back as a status
// error that does not satisfy errors.Is(err, context.DeadlineExceeded),
// so it is re-wrapped here for callers to classify as a timeout.
func rpcErr(op string, err error) error {
	if status.Code(err) == codes.DeadlineExceeded {
		return fmt.Errorf("qdrant %s: %w: %v", op, context.DeadlineExceeded, err)
	}
	return fmt.Errorf("qdrant %s: %w", op, err)
}

// Close closes the gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// pointID derives a deterministic UUID from the passage ID; Qdrant
// point IDs must be UUIDs or integers.
func pointID(passageID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(passageID)).String()
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

package review

import (
	"context"
	"math"
)

// Summary is the rating rollup for one product. AverageRating is nil when no
// review carries a rating; ReviewCount counts every review.
type Summary struct {
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
	Stars         int      `json:"stars"`
}

func Aggregate(reviews []Review) Summary {
	var sum float64
	var rated int
	for i := range reviews {
		if v, ok := reviews[i].Rating(); ok {
			sum += v
			rated++
		}
	}
	s := Summary{ReviewCount: len(reviews)}
	if rated > 0 {
		avg := sum / float64(rated)
		s.AverageRating = &avg
		s.Stars = Stars(avg)
	}
	return s
}

// Stars rounds an average to a whole star in 1..5.
func Stars(avg float64) int {
	n := int(math.Round(avg))
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}

// ProductReviews is a product's review list with its rollup.
type ProductReviews struct {
	Summary
	Reviews []WithDetails `json:"reviews"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) ForProduct(ctx context.Context, productID int64) (*ProductReviews, error) {
	list, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	plain := make([]Review, len(list))
	for i := range list {
		plain[i] = list[i].Review
	}
	return &ProductReviews{Summary: Aggregate(plain), Reviews: list}, nil
}

// Summaries computes rollups for a set of products in one query. Products
// without reviews get an empty Summary.
func (s *Service) Summaries(ctx context.Context, productIDs []int64) (map[int64]Summary, error) {
	byProduct, err := s.repo.ListForProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]Summary, len(productIDs))
	for _, id := range productIDs {
		out[id] = Aggregate(byProduct[id])
	}
	return out, nil
}

// Feed lists every review, newest first.
func (s *Service) Feed(ctx context.Context) ([]WithDetails, error) {
	return s.repo.ListAll(ctx)
}

// Package store provides demo storefront fixtures for the agent dashboard:
// recommended products and coupons, plus randomized in-store movement and
// purchase histories for the report view.
package store

import (
	"math/rand"
	"time"
)

// Product is one recommended item shown alongside a strategy report.
type Product struct {
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

// Coupon is one recommended offer shown alongside a strategy report.
type Coupon struct {
	Title  string `json:"title"`
	Valid  string `json:"valid"`
	Detail string `json:"detail"`
}

// Zone is a named store area on a specific floor.
type Zone struct {
	Zone  string `json:"zone"`
	Floor int    `json:"floor"`
}

// Visit is one stop on a customer's in-store movement path.
type Visit struct {
	Time  string `json:"time"`
	Zone  string `json:"zone"`
	Floor int    `json:"floor"`
}

// Purchase is one row in a customer's purchase history.
type Purchase struct {
	Time     string `json:"time"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Price    int    `json:"price"`
}

type itemTemplate struct {
	category string
	brand    string
	priceMin int
	priceMax int
}

var zones = []Zone{
	{Zone: "정문", Floor: 1},
	{Zone: "화장품", Floor: 1},
	{Zone: "여성 의류", Floor: 2},
	{Zone: "남성 의류", Floor: 3},
	{Zone: "가방/잡화", Floor: 2},
	{Zone: "푸드코트", Floor: 4},
}

var itemTemplates = []itemTemplate{
	{category: "가방", brand: "브랜드A", priceMin: 80000, priceMax: 200000},
	{category: "신발", brand: "브랜드B", priceMin: 60000, priceMax: 150000},
	{category: "코트", brand: "브랜드C", priceMin: 100000, priceMax: 400000},
	{category: "양말", brand: "브랜드D", priceMin: 3000, priceMax: 8000},
}

var recommendedProducts = []Product{
	{
		Name:     "Miss Dior Blooming Bouquet",
		Price:    165000,
		Category: "향수",
		Notes:    "산뜻한 플로럴 계열, 20~30대 여성 인기 라인",
	},
	{
		Name:     "J'adore Eau de Parfum",
		Price:    198000,
		Category: "향수",
		Notes:    "럭셔리 플로럴 부케, 선물용 추천",
	},
	{
		Name:     "Dior Addict Lip Glow",
		Price:    49000,
		Category: "메이크업",
		Notes:    "향수와 함께 구성 가능한 베스트셀러 리빙 코랄 틴트",
	},
}

var recommendedCoupons = []Coupon{
	{
		Title:  "Dior Beauty 시향 키트 증정 쿠폰",
		Valid:  "2025-12-31",
		Detail: "매장 방문 시 Miss Dior · J'adore 시향 키트 제공",
	},
	{
		Title:  "향수 구매 고객 한정 기프트 패키지 제공",
		Valid:  "2025-12-31",
		Detail: "향수 구매 시 디올 익스클루시브 패키지로 포장",
	},
}

// NewSeededRNG creates a seeded random number generator.
// If seed is 0, the current time is used.
func NewSeededRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RecommendedProducts returns the demo product recommendations.
func RecommendedProducts() []Product {
	out := make([]Product, len(recommendedProducts))
	copy(out, recommendedProducts)
	return out
}

// RecommendedCoupons returns the demo coupon recommendations.
func RecommendedCoupons() []Coupon {
	out := make([]Coupon, len(recommendedCoupons))
	copy(out, recommendedCoupons)
	return out
}

// Zones returns the store zone catalog.
func Zones() []Zone {
	out := make([]Zone, len(zones))
	copy(out, zones)
	return out
}

// MovementPath generates a random in-store movement path starting at the
// given time, one random zone per step with 3-10 minutes between stops.
func MovementPath(rng *rand.Rand, start time.Time, steps int) []Visit {
	path := make([]Visit, 0, steps)
	current := start

	for i := 0; i < steps; i++ {
		zone := zones[rng.Intn(len(zones))]
		path = append(path, Visit{
			Time:  current.Format("15:04"),
			Zone:  zone.Zone,
			Floor: zone.Floor,
		})
		current = current.Add(time.Duration(3+rng.Intn(8)) * time.Minute)
	}
	return path
}

// Purchases generates a random purchase history beginning 15 minutes after
// the given start time, with 5-15 minutes between purchases.
func Purchases(rng *rand.Rand, start time.Time, count int) []Purchase {
	purchases := make([]Purchase, 0, count)
	current := start.Add(15 * time.Minute)

	for i := 0; i < count; i++ {
		tpl := itemTemplates[rng.Intn(len(itemTemplates))]
		purchases = append(purchases, Purchase{
			Time:     current.Format("15:04"),
			Category: tpl.category,
			Brand:    tpl.brand,
			Price:    tpl.priceMin + rng.Intn(tpl.priceMax-tpl.priceMin+1),
		})
		current = current.Add(time.Duration(5+rng.Intn(11)) * time.Minute)
	}
	return purchases
}

// Package main prints demo dashboard fixtures as JSON: recommended
// products and coupons plus a randomized in-store movement path and
// purchase history for a fake customer visit.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/daeunpk/AX-MALL-AI-SERVICE/internal/platform/config"
	"github.com/daeunpk/AX-MALL-AI-SERVICE/internal/seed/store"
)

type demoProfile struct {
	VisitDate           string           `json:"visitDate"`
	StoreZones          []store.Zone     `json:"storeZones"`
	MovementPath        []store.Visit    `json:"movementPath"`
	Purchases           []store.Purchase `json:"purchases"`
	RecommendedProducts []store.Product  `json:"recommendedProducts"`
	RecommendedCoupons  []store.Coupon   `json:"recommendedCoupons"`
}

func main() {
	var seedVal int64
	var visits int
	var purchases int
	var start string

	flag.Int64Var(&seedVal, "seed", 0, "random seed for reproducibility (0 = random)")
	flag.IntVar(&visits, "visits", 6, "number of movement path stops")
	flag.IntVar(&purchases, "purchases", 3, "number of purchase rows")
	flag.StringVar(&start, "start", "13:00", "visit start time (HH:MM)")
	flag.Parse()

	startTime, err := time.Parse("15:04", start)
	if err != nil {
		config.Exitf("parse start time: %v", err)
	}

	rng := store.NewSeededRNG(seedVal)
	profile := demoProfile{
		VisitDate:           time.Now().Format("2006-01-02"),
		StoreZones:          store.Zones(),
		MovementPath:        store.MovementPath(rng, startTime, visits),
		Purchases:           store.Purchases(rng, startTime, purchases),
		RecommendedProducts: store.RecommendedProducts(),
		RecommendedCoupons:  store.RecommendedCoupons(),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(profile); err != nil {
		config.Exitf("encode profile: %v", err)
	}
}

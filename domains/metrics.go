package domains

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	domainLabel = "domain"
	kindLabel   = "kind"
)

var (
	idallocDomainCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "domain_count",
		Help: "The number of open allocation domains.",
	}, []string{kindLabel})

	idallocDomainCountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domain_count_total",
		Help: "The total number of opened allocation domains.",
	}, []string{kindLabel})

	idallocIssuedIDsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issued_ids_total",
		Help: "The total number of issued ids.",
	}, []string{domainLabel, kindLabel})

	idallocReleasedIDsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "released_ids_total",
		Help: "The total number of released ids.",
	}, []string{domainLabel, kindLabel})
)

func instrumentIncreaseDomainGauge(kind string) {
	idallocDomainCount.
		With(prometheus.Labels{kindLabel: kind}).
		Inc()
}

func instrumentDecreaseDomainGauge(kind string) {
	idallocDomainCount.
		With(prometheus.Labels{kindLabel: kind}).
		Dec()
}

func instrumentCountDomain(kind string) {
	idallocDomainCountTotal.
		With(prometheus.Labels{kindLabel: kind}).
		Inc()
}

func instrumentCountIssuedID(domain, kind string) {
	idallocIssuedIDsTotal.
		With(prometheus.Labels{domainLabel: domain, kindLabel: kind}).
		Inc()
}

func instrumentCountReleasedID(domain, kind string) {
	idallocReleasedIDsTotal.
		With(prometheus.Labels{domainLabel: domain, kindLabel: kind}).
		Inc()
}

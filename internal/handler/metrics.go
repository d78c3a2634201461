package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signUpsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_signups_total",
		Help: "Total number of successful user registrations.",
	})

	signInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_signins_total",
			Help: "Total number of sign-in attempts by method and status.",
		},
		[]string{"method", "status"},
	)

	emailsRequestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_verification_emails_total",
			Help: "Total number of queued verification emails by type.",
		},
		[]string{"type"},
	)

	verificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_code_verifications_total",
			Help: "Total number of verification code checks by purpose and status.",
		},
		[]string{"purpose", "status"},
	)

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_verifications_total",
			Help: "Total number of token verification attempts by type and status.",
		},
		[]string{"type", "status"},
	)
)

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

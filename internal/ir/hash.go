package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainReport = "prodnet/report/v1"
	DomainPlan   = "prodnet/plan/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ReportID computes the content-addressed id of a rendered report.
// The same plan name and canonical body always yield the same id.
func ReportID(planName string, body []byte) string {
	obj := map[string]any{
		"plan":    planName,
		"version": ReportVersion,
	}
	header, err := MarshalCanonical(obj)
	if err != nil {
		// Only strings involved; unreachable.
		panic(fmt.Sprintf("ReportID: %v", err))
	}
	data := make([]byte, 0, len(header)+1+len(body))
	data = append(data, header...)
	data = append(data, 0x00)
	data = append(data, body...)
	return hashWithDomain(DomainReport, data)
}

// PlanHash computes a stable hash over a canonical plan description.
// Returns error if the description cannot be canonically marshaled.
func PlanHash(desc map[string]any) (string, error) {
	canonical, err := MarshalCanonical(desc)
	if err != nil {
		return "", fmt.Errorf("PlanHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPlan, canonical), nil
}

package handler

import "agepass/internal/credential/models"

// VerifyResponse is the verdict plus a single go/no-go flag for scanners.
type VerifyResponse struct {
	models.VerificationResult
	Accepted bool `json:"accepted"`
}

// BatchVerifyResponse keeps results in request order.
type BatchVerifyResponse struct {
	Results  []VerifyResponse `json:"results"`
	Accepted int              `json:"accepted"`
	Total    int              `json:"total"`
}

func toVerifyResponse(result models.VerificationResult) VerifyResponse {
	return VerifyResponse{VerificationResult: result, Accepted: result.Accepted()}
}

func toBatchResponse(results []models.VerificationResult) BatchVerifyResponse {
	res := BatchVerifyResponse{
		Results: make([]VerifyResponse, 0, len(results)),
		Total:   len(results),
	}
	for _, r := range results {
		vr := toVerifyResponse(r)
		if vr.Accepted {
			res.Accepted++
		}
		res.Results = append(res.Results, vr)
	}
	return res
}

package models

// Profile is the read-only identity context supplied by the external profile
// store. The target exam feeds exam-relevance weighting in the scheduler.
type Profile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	TargetExam string `json:"target_exam"`
}

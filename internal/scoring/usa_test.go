package scoring

import (
	"testing"

	"migrascore/internal/domain"
)

func TestUSAScore(t *testing.T) {
	tests := []struct {
		name         string
		experience   float64
		education    domain.EducationLevel
		wantTotal    int
		wantEligible bool
		wantBlocked  bool
	}{
		{
			name:         "under five years blocks",
			experience:   4,
			education:    domain.EducationDoctorate,
			wantTotal:    35, // 20 + 15, pero el blocker manda
			wantEligible: false,
			wantBlocked:  true,
		},
		{
			name:         "ten years strong track record",
			experience:   10,
			education:    domain.EducationBachelor,
			wantTotal:    80,
			wantEligible: true,
		},
		{
			name:         "mid range without bonus stays below bar",
			experience:   7,
			education:    domain.EducationBachelor,
			wantTotal:    60,
			wantEligible: false,
		},
		{
			name:         "mid range with doctorate passes",
			experience:   7,
			education:    domain.EducationDoctorate,
			wantTotal:    75,
			wantEligible: true,
		},
		{
			name:         "master bonus reaches exactly seventy",
			experience:   7,
			education:    domain.EducationMaster,
			wantTotal:    70,
			wantEligible: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := USAStrategy{}.Score(domain.ApplicantProfile{
				YearsOfExperience: tt.experience,
				EducationLevel:    tt.education,
			})
			if b.TotalScore != tt.wantTotal {
				t.Fatalf("total = %d; want %d", b.TotalScore, tt.wantTotal)
			}
			if b.Eligible != tt.wantEligible {
				t.Fatalf("eligible = %v; want %v", b.Eligible, tt.wantEligible)
			}
			if tt.wantBlocked && len(b.Blockers) == 0 {
				t.Fatalf("expected evidence blocker")
			}
			if !tt.wantBlocked && len(b.Blockers) != 0 {
				t.Fatalf("expected no blockers, got %v", b.Blockers)
			}
		})
	}
}

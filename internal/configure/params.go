package configure

import (
	"crypto/rand"
	"math/big"

	"github.com/initify/logdrains/internal/vercel"
)

// DrainParams is the new drain form draft.
type DrainParams struct {
	Name      string              `form:"name"`
	Type      vercel.LogDrainType `form:"type"`
	URL       string              `form:"url"`
	ProjectID string              `form:"project_id"`
	Secret    string              `form:"secret"`
}

// NewDrainParams returns the defaults the form opens with.
func NewDrainParams() DrainParams {
	return DrainParams{
		Type:   vercel.LogDrainNDJSON,
		Secret: randomString(8),
	}
}

// Request converts the draft to an API request. Empty project and secret
// are left out of the request rather than sent as "".
func (p DrainParams) Request() vercel.CreateLogDrainRequest {
	return vercel.CreateLogDrainRequest{
		Name:      p.Name,
		Type:      p.Type,
		URL:       p.URL,
		ProjectID: p.ProjectID,
		Secret:    p.Secret,
	}
}

const secretAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomString(n int) string {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(secretAlphabet)))
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(err)
		}
		b[i] = secretAlphabet[v.Int64()]
	}
	return string(b)
}

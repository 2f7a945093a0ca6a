package firebase

import (
	"context"
	"fmt"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	credentialspb "cloud.google.com/go/iam/credentials/apiv1/credentialspb"
)

// Signer signs bytes as a service account through the IAM Credentials API,
// so V4 signed URLs work without a private key on disk.
type Signer struct {
	iam     *credentials.IamCredentialsClient
	account string
}

func NewSigner(ctx context.Context, serviceAccountEmail string) (*Signer, error) {
	c, err := credentials.NewIamCredentialsClient(ctx, ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("iam credentials client: %w", err)
	}
	return &Signer{iam: c, account: serviceAccountEmail}, nil
}

func (s *Signer) Sign(ctx context.Context, b []byte) ([]byte, error) {
	resp, err := s.iam.SignBlob(ctx, &credentialspb.SignBlobRequest{
		Name:    fmt.Sprintf("projects/-/serviceAccounts/%s", s.account),
		Payload: b,
	})
	if err != nil {
		return nil, fmt.Errorf("sign blob: %w", err)
	}
	return resp.SignedBlob, nil
}

func (s *Signer) Close() {
	if s == nil || s.iam == nil {
		return
	}
	_ = s.iam.Close()
}

package crypto

import (
	"errors"
	"testing"
)

// TestSignWithDomain 测试域分隔签名
func TestSignWithDomain(t *testing.T) {
	for _, kt := range KeyTypes {
		t.Run(kt.String(), func(t *testing.T) {
			priv, pub, _ := GenerateKeyPair(kt)
			name := []byte("register-name")
			hash := []byte("entry-hash")

			sig, err := SignWithDomain(priv, "dsn/register-entry", name, hash)
			if err != nil {
				t.Fatal(err)
			}
			if err := VerifyWithDomain(pub, "dsn/register-entry", sig, name, hash); err != nil {
				t.Fatalf("VerifyWithDomain() error = %v", err)
			}

			// 换一个域则签名失效
			err = VerifyWithDomain(pub, "dsn/scratchpad", sig, name, hash)
			if !errors.Is(err, ErrInvalidSignature) {
				t.Errorf("cross-domain verify error = %v, want ErrInvalidSignature", err)
			}
		})
	}
}

// TestVerifyOwner 测试基于序列化公钥的验证
func TestVerifyOwner(t *testing.T) {
	priv, _, _ := GenerateKeyPair(KeyTypeEd25519)
	owner, err := OwnerBytes(priv)
	if err != nil {
		t.Fatal(err)
	}

	sig, _ := SignWithDomain(priv, "dsn/scratchpad", []byte("data"))
	if err := VerifyOwner(owner, "dsn/scratchpad", sig, []byte("data")); err != nil {
		t.Errorf("VerifyOwner() error = %v", err)
	}
	if err := VerifyOwner(owner, "dsn/scratchpad", sig, []byte("date")); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("VerifyOwner(tampered) error = %v", err)
	}
	if err := VerifyOwner([]byte("junk"), "dsn/scratchpad", sig); !errors.Is(err, ErrInvalidPublicKey) {
		t.Errorf("VerifyOwner(junk owner) error = %v", err)
	}
	if err := VerifyOwner(owner, "dsn/scratchpad", nil); !errors.Is(err, ErrNilSignature) {
		t.Errorf("VerifyOwner(nil sig) error = %v", err)
	}
}

// TestSigningMessage 测试消息布局
func TestSigningMessage(t *testing.T) {
	got := SigningMessage("d", []byte("a"), []byte("bc"))
	want := "d\x00abc"
	if string(got) != want {
		t.Errorf("SigningMessage() = %q, want %q", got, want)
	}
}

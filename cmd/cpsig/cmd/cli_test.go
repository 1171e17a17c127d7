package cmd

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io/ioutil"
	"math/big"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/group"
	"github.com/davxy/w3f-bls/pkg/group/secp256k1"
	"github.com/davxy/w3f-bls/pkg/group/suite"
	"github.com/davxy/w3f-bls/pkg/parser"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := NewCli()
	require.NoError(t, cli.Init())
	cli.AddCommands(Commands)

	var out bytes.Buffer
	cli.SetOutput(&out)
	cli.SetArgs(args)
	err := cli.Run()
	return out.String(), err
}

func keygen(t *testing.T, dir string, engine string) string {
	t.Helper()
	path := filepath.Join(dir, "key.json")
	_, err := run(t, "--engine", engine, "keygen", "--output", path)
	require.NoError(t, err)
	return path
}

func signRecord(t *testing.T, engine, keyFile, msg string) *parser.Record {
	t.Helper()
	out, err := run(t, "--engine", engine, "sign", "--key-file", keyFile, "--message", msg)
	require.NoError(t, err)
	records, err := (&parser.JSONParser{}).Parse(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, records, 1)
	return records[0]
}

func verifyArgs(engine string, rec *parser.Record) []string {
	return []string{
		"--engine", engine, "verify",
		"--public-key", hex.EncodeToString(rec.PublicKey),
		"--message-hex", hex.EncodeToString(rec.Message),
		"--signature", hex.EncodeToString(rec.Signature),
		"--challenge", hex.EncodeToString(rec.Challenge),
		"--response", hex.EncodeToString(rec.Response),
	}
}

func TestEnginesListsEverything(t *testing.T) {
	out, err := run(t, "engines")
	require.NoError(t, err)
	for _, name := range suite.Names() {
		assert.Contains(t, out, name)
	}
	for _, name := range chaumpedersen.HashNames() {
		assert.Contains(t, out, name)
	}
}

func TestSignThenVerify(t *testing.T) {
	for _, engine := range []string{suite.Default, secp256k1.Name} {
		t.Run(engine, func(t *testing.T) {
			keyFile := keygen(t, t.TempDir(), engine)
			rec := signRecord(t, engine, keyFile, "hello")
			assert.Equal(t, []byte("hello"), rec.Message)

			out, err := run(t, verifyArgs(engine, rec)...)
			require.NoError(t, err)
			assert.Equal(t, "valid\n", out)

			rec.Message = []byte("hellO")
			out, err = run(t, verifyArgs(engine, rec)...)
			assert.ErrorIs(t, err, errProofRejected)
			assert.Equal(t, "invalid\n", out)
		})
	}
}

func TestSignThenVerifyBundle(t *testing.T) {
	keyFile := keygen(t, t.TempDir(), secp256k1.Name)
	bundle, err := run(t, "--engine", secp256k1.Name, "sign", "--key-file", keyFile, "--message", "", "--bundle")
	require.NoError(t, err)
	rec := signRecord(t, secp256k1.Name, keyFile, "")

	out, err := run(t, "--engine", secp256k1.Name, "verify",
		"--public-key", hex.EncodeToString(rec.PublicKey),
		"--message", "",
		"--bundle", strings.TrimSpace(bundle))
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	// the bundle names its engine
	out, err = run(t, "--engine", suite.Default, "verify",
		"--public-key", hex.EncodeToString(rec.PublicKey),
		"--message", "",
		"--bundle", strings.TrimSpace(bundle))
	assert.ErrorIs(t, err, errProofRejected)
	assert.Equal(t, "invalid\n", out)
}

func TestVerifyRejectsMalformedInputsLikeInvalidProofs(t *testing.T) {
	keyFile := keygen(t, t.TempDir(), secp256k1.Name)
	rec := signRecord(t, secp256k1.Name, keyFile, "hello")

	mutations := map[string]func(r *parser.Record){
		"wrong message":       func(r *parser.Record) { r.Message = []byte("hellO") },
		"truncated signature": func(r *parser.Record) { r.Signature = r.Signature[:4] },
		"long challenge":      func(r *parser.Record) { r.Challenge = append(r.Challenge, 0) },
		"unreduced response":  func(r *parser.Record) { r.Response = bytes.Repeat([]byte{0xff}, len(r.Response)) },
		"bad public key":      func(r *parser.Record) { r.PublicKey = r.PublicKey[1:] },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			bad := *rec
			mutate(&bad)
			out, err := run(t, verifyArgs(secp256k1.Name, &bad)...)
			assert.Equal(t, errProofRejected, err)
			assert.Equal(t, "invalid\n", out)
		})
	}

	out, err := run(t, "--engine", secp256k1.Name, "verify",
		"--public-key", hex.EncodeToString(rec.PublicKey), "--message", "hello", "--bundle", "0a02zz")
	assert.Equal(t, errProofRejected, err)
	assert.Equal(t, "invalid\n", out)
}

func TestSignWithOtherHash(t *testing.T) {
	keyFile := keygen(t, t.TempDir(), secp256k1.Name)
	out, err := run(t, "--engine", secp256k1.Name, "--hash", "blake2b-512", "sign", "--key-file", keyFile, "--message", "m")
	require.NoError(t, err)
	records, err := (&parser.JSONParser{}).Parse(strings.NewReader(out))
	require.NoError(t, err)

	args := verifyArgs(secp256k1.Name, records[0])
	_, err = run(t, args...)
	assert.ErrorIs(t, err, errProofRejected)

	_, err = run(t, append([]string{"--hash", "blake2b-512"}, args...)...)
	assert.NoError(t, err)
}

func TestSignRequiresMessageAndKey(t *testing.T) {
	keyFile := keygen(t, t.TempDir(), secp256k1.Name)
	_, err := run(t, "--engine", secp256k1.Name, "sign", "--key-file", keyFile)
	assert.Error(t, err)

	_, err = run(t, "--engine", secp256k1.Name, "sign", "--key-file", keyFile, "--message", "a", "--message-hex", "61")
	assert.Error(t, err)

	_, err = run(t, "--engine", suite.Default, "sign", "--key-file", keyFile, "--message", "a")
	assert.ErrorIs(t, err, chaumpedersen.ErrEngineMismatch)
}

func TestUnknownEngineAndLogLevel(t *testing.T) {
	_, err := run(t, "--engine", "p256", "keygen")
	assert.Error(t, err)

	_, err = run(t, "--log-level", "chatty", "engines")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "cpsig.yaml")
	require.NoError(t, ioutil.WriteFile(conf, []byte("engine: secp256k1\nhash: sha3-256\n"), 0644))

	keyFile := filepath.Join(dir, "key.json")
	_, err := run(t, "--conf", conf, "keygen", "--output", keyFile)
	require.NoError(t, err)
	data, err := ioutil.ReadFile(keyFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"engine": "secp256k1"`)

	// flags win over the config file
	_, err = run(t, "--conf", conf, "--engine", suite.Default, "sign", "--key-file", keyFile, "--message", "m")
	assert.ErrorIs(t, err, chaumpedersen.ErrEngineMismatch)

	_, err = run(t, "--conf", filepath.Join(dir, "missing.yaml"), "engines")
	assert.Error(t, err)
}

func TestVerifyBatch(t *testing.T) {
	dir := t.TempDir()
	keyFile := keygen(t, dir, secp256k1.Name)
	proofs := filepath.Join(dir, "proofs.json")
	for _, msg := range []string{"one", "two", "three"} {
		_, err := run(t, "--engine", secp256k1.Name, "sign", "--key-file", keyFile, "--message", msg, "--append", proofs)
		require.NoError(t, err)
	}

	out, err := run(t, "--engine", secp256k1.Name, "verify-batch", "--input", proofs, "--quiet")
	require.NoError(t, err)
	assert.Equal(t, "valid: 3, rejected: 0\n", out)

	records, err := parser.ParseFile(proofs)
	require.NoError(t, err)
	records[1].Message = []byte("deux")
	records[2].Signature = records[2].Signature[:4]
	writeRecords(t, proofs, records)

	out, err = run(t, "--engine", secp256k1.Name, "verify-batch", "--input", proofs)
	assert.ErrorIs(t, err, errProofRejected)
	assert.Contains(t, out, "0\tvalid\n1\trejected\n2\trejected\n")
	assert.Contains(t, out, "valid: 1, rejected: 2")
}

func TestAuditFindsNothingInHonestProofs(t *testing.T) {
	dir := t.TempDir()
	keyFile := keygen(t, dir, secp256k1.Name)
	proofs := filepath.Join(dir, "proofs.json")
	for _, msg := range []string{"one", "two", "three"} {
		_, err := run(t, "--engine", secp256k1.Name, "sign", "--key-file", keyFile, "--message", msg, "--append", proofs)
		require.NoError(t, err)
	}

	out, err := run(t, "--engine", secp256k1.Name, "audit", "--proofs", proofs,
		"--a-range", "1,1", "--b-range", "-5,5", "--max-pairs", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "No related witnesses found")
}

func TestAuditRecoversCounterWitnesses(t *testing.T) {
	engine := secp256k1.NewEngine()
	x := randomScalar(t, engine)
	k := randomScalar(t, engine)
	one := engine.SetBigInt(big.NewInt(1))

	proofs := filepath.Join(t.TempDir(), "proofs.json")
	writeRecords(t, proofs, []*parser.Record{
		forgeRecord(t, engine, x, k, "first"),
		forgeRecord(t, engine, x, engine.ScalarAdd(k, one), "second"),
	})
	secretHex := engine.BigInt(x).Text(16)

	out, err := run(t, "--engine", secp256k1.Name, "audit", "--proofs", proofs)
	require.NoError(t, err)
	assert.Contains(t, out, "Secret key: 0x"+secretHex)
	assert.Contains(t, out, "Verified against public key.")

	out, err = run(t, "--engine", secp256k1.Name, "audit", "--proofs", proofs, "--known-a", "1", "--known-b", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Secret key: 0x"+secretHex)
	assert.Contains(t, out, "Pattern: known_a1_b1")
}

func randomScalar(t *testing.T, engine group.Engine) group.Scalar {
	buf := make([]byte, engine.ScalarSize()+16)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return engine.ReduceScalar(buf)
}

// forgeRecord proves with witness k instead of the derived one.
func forgeRecord(t *testing.T, engine group.Engine, x, k group.Scalar, msg string) *parser.Record {
	t.Helper()
	m, err := engine.HashToPoint([]byte(msg))
	require.NoError(t, err)
	pub := engine.ScalarBaseMult(x)
	sig := engine.ScalarMult(m, x)

	h := sha256.New()
	for _, p := range []group.Point{m, pub, sig, engine.ScalarBaseMult(k), engine.ScalarMult(m, k)} {
		h.Write(p.Bytes())
	}
	c := engine.ReduceScalar(h.Sum(nil))
	s := engine.ScalarSub(k, engine.ScalarMul(c, x))
	return &parser.Record{
		PublicKey: pub.Bytes(),
		Message:   []byte(msg),
		Signature: sig.Bytes(),
		Challenge: c.Bytes(),
		Response:  s.Bytes(),
	}
}

func writeRecords(t *testing.T, path string, records []*parser.Record) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, parser.WriteJSON(&buf, records))
	require.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0644))
}

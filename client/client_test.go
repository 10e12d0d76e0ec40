package client

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"extcall/call"
	"extcall/dispatch"
	"extcall/middleware"
	"extcall/protocol"
	"extcall/scale"
	"extcall/status"
)

// scriptedRuntime answers every invoke with a fixed outcome and keeps
// what it saw, so tests can assert both directions of the boundary.
type scriptedRuntime struct {
	outcome  call.RawOutcome
	invokes  int
	seenIDs  []uint32
	payloads [][]byte
}

func (r *scriptedRuntime) Invoke(id uint32, payload []byte) call.RawOutcome {
	r.invokes++
	r.seenIDs = append(r.seenIDs, id)
	r.payloads = append(r.payloads, payload)
	return r.outcome
}

func testAccount(fill byte) call.AccountID {
	var id call.AccountID
	for i := range id {
		id[i] = fill
	}
	return id
}

func TestTransferDescriptorShape(t *testing.T) {
	rt := &scriptedRuntime{outcome: call.OkOutcome(nil)}
	c, err := New(rt)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	dest := testAccount(0x11)
	if err := c.Transfer(dest, scale.U128From(1000)); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	// Identifier: balances module, transfer function, version 1.
	wantID := protocol.ID(protocol.ModuleBalances, protocol.BalancesFnTransfer, protocol.V1)
	if rt.seenIDs[0] != wantID {
		t.Errorf("identifier mismatch: got %#x, want %#x", rt.seenIDs[0], wantID)
	}

	// Payload: 32 raw destination bytes, 16 value bytes little-endian,
	// one keep-alive flag byte.
	payload := rt.payloads[0]
	if len(payload) != 49 {
		t.Fatalf("payload length mismatch: got %d, want 49", len(payload))
	}
	if !bytes.Equal(payload[:32], dest[:]) {
		t.Errorf("destination bytes mismatch")
	}
	wantValue := []byte{0xe8, 0x03, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(payload[32:48], wantValue) {
		t.Errorf("value bytes mismatch: got %x, want %x", payload[32:48], wantValue)
	}
	if payload[48] != 0x00 {
		t.Errorf("keep-alive flag mismatch: got %#x, want 0x00", payload[48])
	}
}

func TestTransferKeepAliveSetsFlag(t *testing.T) {
	rt := &scriptedRuntime{outcome: call.OkOutcome(nil)}
	c, _ := New(rt)

	if err := c.TransferKeepAlive(testAccount(0x22), scale.U128From(5)); err != nil {
		t.Fatalf("TransferKeepAlive failed: %v", err)
	}
	payload := rt.payloads[0]
	if payload[len(payload)-1] != 0x01 {
		t.Errorf("keep-alive flag mismatch: got %#x, want 0x01", payload[len(payload)-1])
	}
}

func TestTransferV0ShapeHasNoFlag(t *testing.T) {
	rt := &scriptedRuntime{outcome: call.OkOutcome(nil)}
	c, _ := New(rt)

	if err := c.TransferV0(testAccount(0x33), scale.U128From(7)); err != nil {
		t.Fatalf("TransferV0 failed: %v", err)
	}

	wantID := protocol.ID(protocol.ModuleBalances, protocol.BalancesFnTransfer, protocol.V0)
	if rt.seenIDs[0] != wantID {
		t.Errorf("identifier mismatch: got %#x, want %#x", rt.seenIDs[0], wantID)
	}
	if len(rt.payloads[0]) != 48 {
		t.Errorf("v0 payload length mismatch: got %d, want 48", len(rt.payloads[0]))
	}
}

func TestDescriptorDeterminism(t *testing.T) {
	// The same call twice must put identical bytes on the boundary.
	rt := &scriptedRuntime{outcome: call.OkOutcome(nil)}
	c, _ := New(rt)

	dest := testAccount(0x44)
	for i := 0; i < 2; i++ {
		if err := c.Transfer(dest, scale.U128From(123456)); err != nil {
			t.Fatalf("Transfer %d failed: %v", i, err)
		}
	}

	if rt.seenIDs[0] != rt.seenIDs[1] {
		t.Errorf("identifiers differ across identical calls")
	}
	if !bytes.Equal(rt.payloads[0], rt.payloads[1]) {
		t.Errorf("payloads differ across identical calls: %x vs %x", rt.payloads[0], rt.payloads[1])
	}
}

func TestDescriptorBuffersAreIndependent(t *testing.T) {
	// Mutating the payload of one call must not bleed into the next:
	// every call encodes into a fresh buffer.
	rt := &scriptedRuntime{outcome: call.OkOutcome(nil)}
	c, _ := New(rt)

	dest := testAccount(0x55)
	if err := c.Transfer(dest, scale.U128From(9)); err != nil {
		t.Fatalf("first Transfer failed: %v", err)
	}
	for i := range rt.payloads[0] {
		rt.payloads[0][i] = 0xFF
	}
	if err := c.Transfer(dest, scale.U128From(9)); err != nil {
		t.Fatalf("second Transfer failed: %v", err)
	}

	if bytes.Equal(rt.payloads[0], rt.payloads[1]) {
		t.Fatalf("second payload shares bytes with the clobbered first")
	}
	if rt.payloads[1][0] != 0x55 {
		t.Errorf("second payload corrupted: got %#x, want 0x55", rt.payloads[1][0])
	}
}

func TestTransferInsufficientBalance(t *testing.T) {
	// The environment reports (balances, code 3): the typed error is
	// the insufficient-balance variant with identity preserved.
	rt := &scriptedRuntime{outcome: call.FailOutcome(protocol.OpStatus(protocol.ModuleBalances, status.CodeInsufficientBalance), nil)}
	c, _ := New(rt)

	err := c.Transfer(testAccount(0x66), scale.U128From(1))
	var op *status.OperationFailed
	if !errors.As(err, &op) {
		t.Fatalf("expected OperationFailed, got %v", err)
	}
	if op.Variant != status.InsufficientBalance {
		t.Errorf("Variant mismatch: got %s", op.Variant)
	}
	if op.Module != protocol.ModuleBalances || op.Code != status.CodeInsufficientBalance {
		t.Errorf("identity mismatch: got (%d, %d)", op.Module, op.Code)
	}
}

func TestApiVersionDecodesU32(t *testing.T) {
	// A four-byte success payload carrying 42 decodes to exactly 42.
	rt := &scriptedRuntime{outcome: call.OkOutcome([]byte{0x2a, 0x00, 0x00, 0x00})}
	c, _ := New(rt)

	v, err := c.ApiVersion()
	if err != nil {
		t.Fatalf("ApiVersion failed: %v", err)
	}
	if v != 42 {
		t.Errorf("value mismatch: got %d, want 42", v)
	}
}

func TestUnknownCodeSurvivesTranslation(t *testing.T) {
	// Code 255 is in no table version: the call fails with the Unknown
	// variant and the numeric code observable, and nothing panics.
	rt := &scriptedRuntime{outcome: call.FailOutcome(protocol.OpStatus(protocol.ModuleBalances, 255), nil)}
	c, _ := New(rt)

	err := c.Transfer(testAccount(0x77), scale.U128From(1))
	var op *status.OperationFailed
	if !errors.As(err, &op) {
		t.Fatalf("expected OperationFailed, got %v", err)
	}
	if op.Variant != status.Unknown {
		t.Errorf("Variant mismatch: got %s, want unknown", op.Variant)
	}
	if op.Code != 255 {
		t.Errorf("code not observable: got %d, want 255", op.Code)
	}
}

func TestEnvironmentRejectionWinsOverBytes(t *testing.T) {
	// Even with auxiliary bytes attached, an environment-class status
	// translates as a rejection, never as a decodable success.
	rt := &scriptedRuntime{outcome: call.FailOutcome(protocol.EnvStatus(protocol.EnvBadPayload), []byte{0x01, 0x02})}
	c, _ := New(rt)

	_, err := c.BalanceOf(testAccount(0x88))
	var env *status.EnvironmentRejected
	if !errors.As(err, &env) {
		t.Fatalf("expected EnvironmentRejected, got %v", err)
	}
	if env.Code != protocol.EnvBadPayload {
		t.Errorf("Code mismatch: got %d", env.Code)
	}
}

func TestBalanceOfDecodesU128(t *testing.T) {
	payload := make([]byte, 16)
	payload[0] = 0x39
	payload[1] = 0x30 // 12345 little-endian
	rt := &scriptedRuntime{outcome: call.OkOutcome(payload)}
	c, _ := New(rt)

	v, err := c.BalanceOf(testAccount(0x99))
	if err != nil {
		t.Fatalf("BalanceOf failed: %v", err)
	}
	if v.Cmp(scale.U128From(12345)) != 0 {
		t.Errorf("balance mismatch: got %s, want 12345", v)
	}
}

func TestRegistryGetDecodesBytes(t *testing.T) {
	enc := scale.NewEncoder(0)
	if err := enc.PutBytes([]byte("stored-value")); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	rt := &scriptedRuntime{outcome: call.OkOutcome(enc.Bytes())}
	c, _ := New(rt)

	v, err := c.RegistryGet([]byte("some-key"))
	if err != nil {
		t.Fatalf("RegistryGet failed: %v", err)
	}
	if string(v) != "stored-value" {
		t.Errorf("value mismatch: got %q", v)
	}
}

func TestRegistryHasStrictBool(t *testing.T) {
	rt := &scriptedRuntime{outcome: call.OkOutcome([]byte{0x01})}
	c, _ := New(rt)

	ok, err := c.RegistryHas([]byte("k"))
	if err != nil || !ok {
		t.Fatalf("RegistryHas mismatch: got %v, %v", ok, err)
	}

	// 0x02 is not a bool; the response is malformed, not truthy.
	rt.outcome = call.OkOutcome([]byte{0x02})
	_, err = c.RegistryHas([]byte("k"))
	var d *status.DecodeError
	if !errors.As(err, &d) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if !errors.Is(err, scale.ErrInvalidBool) {
		t.Errorf("cause mismatch: got %v", err)
	}
}

func TestUnitRejectsTrailingBytes(t *testing.T) {
	// A unit return with a stray byte is a malformed response.
	rt := &scriptedRuntime{outcome: call.OkOutcome([]byte{0x00})}
	c, _ := New(rt)

	err := c.Transfer(testAccount(0xaa), scale.U128From(1))
	if !errors.Is(err, scale.ErrTrailingBytes) {
		t.Errorf("expected trailing-bytes DecodeError, got %v", err)
	}
}

func TestTruncatedResponseIsDecodeError(t *testing.T) {
	rt := &scriptedRuntime{outcome: call.OkOutcome([]byte{0x2a, 0x00})}
	c, _ := New(rt)

	_, err := c.ApiVersion()
	var d *status.DecodeError
	if !errors.As(err, &d) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if !errors.Is(err, scale.ErrShortBuffer) {
		t.Errorf("cause mismatch: got %v", err)
	}
}

func TestOneDispatchPerCall(t *testing.T) {
	rt := &scriptedRuntime{outcome: call.OkOutcome(nil)}
	c, _ := New(rt)

	for i := 0; i < 4; i++ {
		if err := c.RegistrySet([]byte("k"), []byte("v")); err != nil {
			t.Fatalf("RegistrySet %d failed: %v", i, err)
		}
	}
	if rt.invokes != 4 {
		t.Errorf("invoke count mismatch: got %d, want 4", rt.invokes)
	}
}

func TestInstalledMiddlewareWrapsDispatch(t *testing.T) {
	rt := &scriptedRuntime{outcome: call.OkOutcome([]byte{0x01, 0, 0, 0})}
	c, _ := New(rt)

	seen := 0
	counting := func(next middleware.Invoker) middleware.Invoker {
		return func(ctx context.Context, desc call.Descriptor) (call.RawOutcome, error) {
			seen++
			return next(ctx, desc)
		}
	}
	c.Use(counting)

	if _, err := c.ApiVersion(); err != nil {
		t.Fatalf("ApiVersion failed: %v", err)
	}
	if _, err := c.BlockNumber(); err != nil {
		t.Fatalf("BlockNumber failed: %v", err)
	}
	if seen != 2 {
		t.Errorf("middleware saw %d calls, want 2", seen)
	}
}

func TestNewRejectsNilRuntime(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, dispatch.ErrNilRuntime) {
		t.Errorf("New(nil): got %v, want ErrNilRuntime", err)
	}
}

package engine

import "github.com/systmms/pqops/internal/monitor"

// healthMessageBytes is the size of the throwaway message used by the
// self-test round trip.
const healthMessageBytes = 32

// HealthCheck probes the full stack: entropy quality, a complete
// generate→sign→verify round trip on throwaway material, and the advisory
// side-channel check. It is a diagnostic, not a transaction: every error
// collapses into false and nothing propagates.
//
// The probe calls the public operations as an ordinary caller and never
// holds the engine lock across the sequence; each sub-operation acquires
// and releases the lock on its own, so the non-reentrant lock cannot
// self-deadlock.
func (e *Engine) HealthCheck() bool {
	healthy := e.probe()
	monitor.SetHealthStatus(healthy)
	return healthy
}

func (e *Engine) probe() bool {
	if !e.gate.Healthy() {
		return false
	}

	kp, err := e.GenerateKeyPair(KindSignature)
	if err != nil {
		return false
	}
	defer kp.Release()

	message, err := e.GenerateSecureRandom(healthMessageBytes)
	if err != nil {
		return false
	}
	defer message.Release()

	sig, err := e.Sign(message.Bytes(), kp.Private)
	if err != nil {
		return false
	}
	defer sig.Release()

	ok, err := e.Verify(message.Bytes(), sig, kp.Public)
	if err != nil || !ok {
		return false
	}

	if e.params.SidechannelProtection && e.monitor.SideChannelSuspected() {
		return false
	}
	return true
}

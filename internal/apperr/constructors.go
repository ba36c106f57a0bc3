package apperr

import "fmt"

// ConfigInvalid reports a config value that failed validation at path with
// the given reason.
func ConfigInvalid(path string, value any, reason string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Code:    CodeConfigInvalid,
		Message: fmt.Sprintf("%s: %s (got %v)", path, reason, value),
		Context: map[string]any{"path": path, "value": value},
	}
}

// ConfigMissing reports a required config value absent at path.
func ConfigMissing(path string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Code:    CodeConfigMissing,
		Message: fmt.Sprintf("%s: required but not set", path),
		Context: map[string]any{"path": path},
	}
}

// ProfileNotFound reports a missing agent profile by name.
func ProfileNotFound(name string) *Error {
	return resourceNotFound("profile", name)
}

// AbilityNotFound reports a missing ability by name.
func AbilityNotFound(name string) *Error {
	return resourceNotFound("ability", name)
}

// TeamNotFound reports a missing team by name.
func TeamNotFound(name string) *Error {
	return resourceNotFound("team", name)
}

func resourceNotFound(resourceType, name string) *Error {
	return &Error{
		Kind:    KindResource,
		Code:    CodeResourceNotFound,
		Message: fmt.Sprintf("%s %q not found", resourceType, name),
		Context: map[string]any{"resourceType": resourceType, "name": name},
	}
}

// ResourceValidationFailed reports a profile/ability/team that failed schema
// validation, with reason describing the failing field or rule.
func ResourceValidationFailed(resourceType, name, reason string) *Error {
	return &Error{
		Kind:    KindResource,
		Code:    CodeResourceValidationFailed,
		Message: fmt.Sprintf("%s %q failed validation: %s", resourceType, name, reason),
		Context: map[string]any{"resourceType": resourceType, "name": name},
	}
}

// ResourceTooLarge reports a profile/ability/team file exceeding its size
// cap.
func ResourceTooLarge(resourceType, name string, size, max int64) *Error {
	return &Error{
		Kind:    KindResource,
		Code:    CodeResourceTooLarge,
		Message: fmt.Sprintf("%s %q is %d bytes, exceeds %d byte limit", resourceType, name, size, max),
		Context: map[string]any{"resourceType": resourceType, "name": name, "size": size, "max": max},
	}
}

// PathTraversal reports an attempt to resolve a path outside its project
// root or workspace boundary. Treated as a security event, never retried.
func PathTraversal(requested, boundary string) *Error {
	return &Error{
		Kind:    KindPath,
		Code:    CodePathTraversal,
		Message: fmt.Sprintf("path %q escapes boundary %q", requested, boundary),
		Context: map[string]any{"requested": requested, "boundary": boundary},
	}
}

// PathInvalid reports a syntactically or semantically invalid path.
func PathInvalid(path, reason string) *Error {
	return &Error{
		Kind:    KindPath,
		Code:    CodePathInvalid,
		Message: fmt.Sprintf("invalid path %q: %s", path, reason),
		Context: map[string]any{"path": path},
	}
}

// PathNotFound reports a path that does not exist on disk.
func PathNotFound(path string) *Error {
	return &Error{
		Kind:    KindPath,
		Code:    CodePathNotFound,
		Message: fmt.Sprintf("path %q not found", path),
		Context: map[string]any{"path": path},
	}
}

// MemoryNotInitialized reports use of the memory capability before it was
// configured.
func MemoryNotInitialized() *Error {
	return &Error{Kind: KindMemory, Code: CodeMemoryNotInitialized, Message: "memory capability not initialized"}
}

// MemoryQueryError reports a failed memory query. Per the propagation
// policy the caller logs this and continues with an empty result set — it
// must never abort a run.
func MemoryQueryError(cause error) *Error {
	return &Error{Kind: KindMemory, Code: CodeMemoryQueryError, Message: "memory query failed", Cause: cause}
}

// MemoryCapacityExceeded reports the memory store rejecting a write because
// it is at capacity.
func MemoryCapacityExceeded(maxEntries int) *Error {
	return &Error{
		Kind:    KindMemory,
		Code:    CodeMemoryCapacityExceeded,
		Message: fmt.Sprintf("memory store at capacity (%d entries)", maxEntries),
		Context: map[string]any{"maxEntries": maxEntries},
	}
}

// ProviderNotFound reports routing to an unregistered provider identifier.
func ProviderNotFound(identifier string) *Error {
	return &Error{
		Kind:    KindProvider,
		Code:    CodeProviderNotFound,
		Message: fmt.Sprintf("provider %q not found", identifier),
		Context: map[string]any{"identifier": identifier},
	}
}

// ProviderUnavailable reports a provider whose circuit breaker is open. A
// CLI binary missing from PATH surfaces as ProviderExecutionError instead.
func ProviderUnavailable(identifier, reason string) *Error {
	return &Error{
		Kind:    KindProvider,
		Code:    CodeProviderUnavailable,
		Message: fmt.Sprintf("provider %q unavailable: %s", identifier, reason),
		Context: map[string]any{"identifier": identifier},
	}
}

// ProviderNoneAvailable reports that routing exhausted every candidate
// provider and fallback chain entry.
func ProviderNoneAvailable(attempted []string) *Error {
	return &Error{
		Kind:    KindProvider,
		Code:    CodeProviderNoneAvailable,
		Message: fmt.Sprintf("no available providers (tried %v)", attempted),
		Context: map[string]any{"attempted": attempted},
	}
}

// ProviderTimeout reports a CLI invocation exceeding its timeout budget.
// Retryable per §4.6.
func ProviderTimeout(identifier string, timeoutMs int) *Error {
	return &Error{
		Kind:      KindProvider,
		Code:      CodeProviderTimeout,
		Message:   fmt.Sprintf("provider %q timed out after %dms", identifier, timeoutMs),
		Context:   map[string]any{"identifier": identifier, "timeoutMs": timeoutMs},
		Retryable: true,
	}
}

// ProviderExecutionError reports a non-zero exit or exec failure from the
// external CLI. Retryable per §4.6.
func ProviderExecutionError(identifier string, exitCode int, stderr string, cause error) *Error {
	return &Error{
		Kind:      KindProvider,
		Code:      CodeProviderExecutionError,
		Message:   fmt.Sprintf("provider %q execution failed (exit %d): %s", identifier, exitCode, stderr),
		Context:   map[string]any{"identifier": identifier, "exitCode": exitCode, "stderr": stderr},
		Retryable: true,
		Cause:     cause,
	}
}

// DelegationUnauthorized reports a delegation attempt that violates the
// delegator's whitelist.
func DelegationUnauthorized(fromAgent, toAgent string) *Error {
	return &Error{
		Kind:    KindDelegation,
		Code:    CodeDelegationUnauthorized,
		Message: fmt.Sprintf("agent %q is not authorized to delegate to %q", fromAgent, toAgent),
		Context: map[string]any{"fromAgent": fromAgent, "toAgent": toAgent},
	}
}

// DelegationNotFound reports a delegation target agent that does not exist.
func DelegationNotFound(toAgent string) *Error {
	return &Error{
		Kind:    KindDelegation,
		Code:    CodeDelegationNotFound,
		Message: fmt.Sprintf("delegation target %q not found", toAgent),
		Context: map[string]any{"toAgent": toAgent},
	}
}

// DelegationMaxDepth reports a delegation chain exceeding its configured
// maximum depth.
func DelegationMaxDepth(fromAgent string, depth, maxDepth int) *Error {
	return &Error{
		Kind:    KindDelegation,
		Code:    CodeDelegationMaxDepth,
		Message: fmt.Sprintf("delegation from %q would exceed max depth (%d >= %d)", fromAgent, depth, maxDepth),
		Context: map[string]any{"fromAgent": fromAgent, "depth": depth, "maxDepth": maxDepth},
	}
}

// DelegationCycle reports a delegation target already present in the chain.
func DelegationCycle(toAgent string, chain []string) *Error {
	return &Error{
		Kind:    KindDelegation,
		Code:    CodeDelegationCycle,
		Message: fmt.Sprintf("delegation to %q would create a cycle in chain %v", toAgent, chain),
		Context: map[string]any{"toAgent": toAgent, "chain": chain},
	}
}

// DelegationTimeout reports a delegated execution exceeding its timeout.
func DelegationTimeout(toAgent string, timeoutMs int) *Error {
	return &Error{
		Kind:    KindDelegation,
		Code:    CodeDelegationTimeout,
		Message: fmt.Sprintf("delegation to %q timed out after %dms", toAgent, timeoutMs),
		Context: map[string]any{"toAgent": toAgent, "timeoutMs": timeoutMs},
	}
}

// DelegationExecutionFailed reports a delegated agent's run failing.
func DelegationExecutionFailed(toAgent string, cause error) *Error {
	return &Error{
		Kind:    KindDelegation,
		Code:    CodeDelegationExecutionFailed,
		Message: fmt.Sprintf("delegation to %q failed", toAgent),
		Context: map[string]any{"toAgent": toAgent},
		Cause:   cause,
	}
}

// SessionNotFound reports an operation against an unknown session id.
func SessionNotFound(sessionID string) *Error {
	return &Error{
		Kind:    KindSession,
		Code:    CodeSessionNotFound,
		Message: fmt.Sprintf("session %q not found", sessionID),
		Context: map[string]any{"sessionID": sessionID},
	}
}

// SessionAlreadyCompleted reports a mutation attempted on a completed
// session.
func SessionAlreadyCompleted(sessionID string) *Error {
	return &Error{
		Kind:    KindSession,
		Code:    CodeSessionAlreadyCompleted,
		Message: fmt.Sprintf("session %q already completed", sessionID),
		Context: map[string]any{"sessionID": sessionID},
	}
}

// SessionCreationFailed reports a failure creating a new session. Reaching
// the session cap is not such a failure: session.Manager evicts the oldest
// sessions instead.
func SessionCreationFailed(reason string) *Error {
	return &Error{
		Kind:    KindSession,
		Code:    CodeSessionCreationFailed,
		Message: fmt.Sprintf("session creation failed: %s", reason),
	}
}

// WorkspacePermissionDenied reports a filesystem permission failure inside a
// workspace boundary.
func WorkspacePermissionDenied(path string, cause error) *Error {
	return &Error{
		Kind:    KindWorkspace,
		Code:    CodeWorkspacePermissionDenied,
		Message: fmt.Sprintf("permission denied for %q", path),
		Context: map[string]any{"path": path},
		Cause:   cause,
	}
}

// WorkspaceNotFound reports a missing workspace directory.
func WorkspaceNotFound(path string) *Error {
	return &Error{
		Kind:    KindWorkspace,
		Code:    CodeWorkspaceNotFound,
		Message: fmt.Sprintf("workspace %q not found", path),
		Context: map[string]any{"path": path},
	}
}

// WorkspaceConflict reports a concurrent-write or naming conflict within a
// workspace.
func WorkspaceConflict(path, reason string) *Error {
	return &Error{
		Kind:    KindWorkspace,
		Code:    CodeWorkspaceConflict,
		Message: fmt.Sprintf("workspace conflict at %q: %s", path, reason),
		Context: map[string]any{"path": path},
	}
}

// WorkspaceQuotaExceeded reports a workspace write exceeding its size quota.
func WorkspaceQuotaExceeded(path string, used, max int64) *Error {
	return &Error{
		Kind:    KindWorkspace,
		Code:    CodeWorkspaceQuotaExceeded,
		Message: fmt.Sprintf("workspace %q quota exceeded (%d/%d bytes)", path, used, max),
		Context: map[string]any{"path": path, "used": used, "max": max},
	}
}

// WorkspaceCreationFailed reports a failure creating a workspace directory.
func WorkspaceCreationFailed(path string, cause error) *Error {
	return &Error{
		Kind:    KindWorkspace,
		Code:    CodeWorkspaceCreationFailed,
		Message: fmt.Sprintf("failed to create workspace %q", path),
		Context: map[string]any{"path": path},
		Cause:   cause,
	}
}

// ValidationFieldFailed reports a single field failing a validation rule.
func ValidationFieldFailed(path string, value any, reason string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidationFieldFailed,
		Message: fmt.Sprintf("%s: %s (got %v)", path, reason, value),
		Context: map[string]any{"path": path, "value": value},
	}
}

// ValidationTypeError reports a field holding a value of the wrong type.
func ValidationTypeError(path string, want, got string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidationTypeError,
		Message: fmt.Sprintf("%s: expected %s, got %s", path, want, got),
		Context: map[string]any{"path": path, "want": want, "got": got},
	}
}

// CircularDependency reports a cycle found while building an agent DAG.
func CircularDependency(agent string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidationCircularDependency,
		Message: fmt.Sprintf("circular dependency detected at agent %q", agent),
		Context: map[string]any{"agent": agent},
	}
}

// UnknownDependency reports a DAG edge referring to an agent not present
// in the input set.
func UnknownDependency(agent, dependency string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidationUnknownDependency,
		Message: fmt.Sprintf("agent %q depends on unknown agent %q", agent, dependency),
		Context: map[string]any{"agent": agent, "dependency": dependency},
	}
}

// Package textutil provides text folding and token helpers shared by
// catalogue search, audio cue naming and sequence identifiers.
//
// Folding removes combining marks after NFD decomposition so IAST names
// such as "Tāḍāsana" compare equal to their plain ASCII spelling.
package textutil

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package collection holds the bounded vote, proposal and commit caches the
// harness uses to recompute consensus outcomes independently of the node under test.
package collection

// IsAboveThreshold returns true if k of n is a strict supermajority (k*3 > n*2).
func IsAboveThreshold(k, n int) bool {
	return k*3 > n*2
}

// QuorumSize returns the smallest k for which IsAboveThreshold(k, n) holds.
func QuorumSize(n int) int {
	return n*2/3 + 1
}

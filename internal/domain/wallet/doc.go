// Package wallet defines member deposits, withdrawals and the balance derived from them.
package wallet

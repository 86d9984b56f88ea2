package calc

import (
	"sync/atomic"

	"github.com/exactspin/wigxj/mwi"
	"github.com/exactspin/wigxj/pool"
	"github.com/exactspin/wigxj/utils/structs"
)

// Fixed roles of the leading scratch records; records from idxIterStart on
// hold one summand exponent vector per iteration of the Racah sum.
const (
	idxPrefact     = 0
	idxMinNume     = 1
	idxNumeTriprod = 2
	idxTriprodFx   = 3
	idxIterStart   = 6
)

// TempStorage is the scratch state of one evaluation: a bank of
// exponent-vector records sized for the worst-case iteration count, the
// multi-word accumulators of the sum assembly, and the prime-product
// evaluator's buffers. Storages are recycled through a pool and never
// shared between concurrent evaluations.
type TempStorage struct {
	bank    *pool.Bank
	maxIter int

	sumProd     mwi.Int
	bigProd     mwi.Int
	bigSqrt     mwi.Int
	bigNume     mwi.Int
	bigDiv      mwi.Int
	bigNumeProd mwi.Int
	triprod     mwi.Int
	triprodTmp  mwi.Int
	triprodFac  mwi.Int

	eval evaluator
}

func newTempStorage(maxTwoJ int, t *pool.PrimeTable) *TempStorage {
	maxIter := maxTwoJ/2 + 1
	ts := &TempStorage{
		bank:    pool.NewBank(idxIterStart+maxIter, t.NumPrimes()),
		maxIter: maxIter,
	}
	ts.Reset()
	return ts
}

func (t *TempStorage) vec(i int) *pool.Vec {
	return t.bank.At(i)
}

// Reset zeroes the record bank and every multi-word workspace.
func (t *TempStorage) Reset() {
	t.bank.Reset()
	t.sumProd.SetWord(0)
	t.bigProd.SetWord(0)
	t.bigSqrt.SetWord(0)
	t.bigNume.SetWord(0)
	t.bigDiv.SetWord(0)
	t.bigNumeProd.SetWord(0)
	t.triprod.SetWord(0)
	t.triprodTmp.SetWord(0)
	t.triprodFac.SetWord(0)
	t.eval.reset()
}

type storagePool struct {
	buffers structs.BufferPool[*TempStorage]
}

var tempPool atomic.Pointer[storagePool]

// getTemp draws a scratch storage sized for the global pool's parameters,
// creating the recycling pool on first use.
func getTemp(g *pool.GlobalPool) *TempStorage {
	sp := tempPool.Load()
	if sp == nil {
		fresh := &storagePool{
			buffers: structs.NewSyncPool(func() *TempStorage {
				return newTempStorage(g.MaxTwoJ, g.Table)
			}),
		}
		if tempPool.CompareAndSwap(nil, fresh) {
			sp = fresh
		} else {
			sp = tempPool.Load()
		}
	}
	return sp.buffers.Get()
}

func putTemp(t *TempStorage) {
	if sp := tempPool.Load(); sp != nil {
		sp.buffers.Put(t)
	}
}

// ResetTempStorage discards all recycled scratch storages. Evaluations in
// flight keep theirs; subsequent evaluations start from fresh storage.
func ResetTempStorage() {
	tempPool.Store(nil)
}

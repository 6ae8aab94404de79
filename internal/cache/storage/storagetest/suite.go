// Package storagetest holds the behaviour every storage engine must share.
package storagetest

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
	"github.com/stretchr/testify/suite"
)

// Factory returns an empty backend. Cleanup is registered on t by the factory.
type Factory func(t *testing.T) storage.Backend

// Run executes the conformance suite against backends produced by factory.
func Run(t *testing.T, factory Factory) {
	suite.Run(t, &BackendSuite{factory: factory})
}

// BackendSuite checks a storage.Backend against the shared contract.
type BackendSuite struct {
	suite.Suite
	factory Factory

	ctx     context.Context
	cancel  context.CancelFunc
	backend storage.Backend
}

func (s *BackendSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), time.Minute)
	s.backend = s.factory(s.T())
	s.Require().NoError(s.backend.CreateSchema(s.ctx))
}

func (s *BackendSuite) TearDownTest() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *BackendSuite) saveChain(from, to uint64) []model.Block {
	blocks := make([]model.Block, 0, to-from+1)
	for h := from; h <= to; h++ {
		b := NewBlock(h, 1)
		s.Require().NoError(s.backend.SaveBlock(s.ctx, b))
		blocks = append(blocks, b)
	}
	return blocks
}

func (s *BackendSuite) TestCreateSchemaIsIdempotent() {
	s.Require().NoError(s.backend.CreateSchema(s.ctx))
	s.Require().NoError(s.backend.Ping(s.ctx))
}

func (s *BackendSuite) TestEmptyStore() {
	_, ok, err := s.backend.MaxHeight(s.ctx)
	s.Require().NoError(err)
	s.False(ok)

	_, err = s.backend.LastBlockHeader(s.ctx)
	s.ErrorIs(err, storage.ErrNotFound)

	_, err = s.backend.Block(s.ctx, Hash("f"))
	s.ErrorIs(err, storage.ErrNotFound)

	_, err = s.backend.BlockHash(s.ctx, 0)
	s.ErrorIs(err, storage.ErrNotFound)

	_, err = s.backend.Transaction(s.ctx, Hash("f"))
	s.ErrorIs(err, storage.ErrNotFound)

	summaries, err := s.backend.Blocks(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(summaries)

	refs, err := s.backend.MissingTransactions(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(refs)
}

func (s *BackendSuite) TestGenesisHeightIsStored() {
	genesis := NewBlock(0, 1)
	s.Require().NoError(s.backend.SaveBlock(s.ctx, genesis))

	height, ok, err := s.backend.MaxHeight(s.ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(uint64(0), height)

	hash, err := s.backend.BlockHash(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(genesis.Hash, hash)

	header, err := s.backend.BlockHeaderByHeight(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(uint64(0), header.Height)
	s.Equal(genesis.Hash, header.Hash)
}

func (s *BackendSuite) TestSaveBlockReplacesSameKey() {
	block := NewBlock(5, 2)
	s.Require().NoError(s.backend.SaveBlock(s.ctx, block))

	block.Reward = 777
	block.OrphanStatus = true
	s.Require().NoError(s.backend.SaveBlock(s.ctx, block))

	summaries, err := s.backend.Blocks(s.ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)

	detail, err := s.backend.Block(s.ctx, block.Hash)
	s.Require().NoError(err)
	s.Equal(uint64(777), detail.Reward)
	s.True(detail.OrphanStatus)
	s.Equal(block.Transactions, detail.Transactions)
	s.Equal(block.AlreadyGeneratedCoins, detail.AlreadyGeneratedCoins)
}

func (s *BackendSuite) TestMaxHeightIsMonotonic() {
	var last uint64
	for h := uint64(0); h < 5; h++ {
		s.Require().NoError(s.backend.SaveBlock(s.ctx, NewBlock(h, 0)))

		height, ok, err := s.backend.MaxHeight(s.ctx)
		s.Require().NoError(err)
		s.True(ok)
		s.GreaterOrEqual(height, last)
		s.Equal(h, height)
		last = height
	}
}

func (s *BackendSuite) TestBlocksPage() {
	s.saveChain(0, 39)

	summaries, err := s.backend.Blocks(s.ctx, 39)
	s.Require().NoError(err)
	s.Require().Len(summaries, storage.BlocksPageSize)
	s.Equal(uint64(39), summaries[0].Height)
	s.Equal(uint64(10), summaries[len(summaries)-1].Height)
	s.True(sort.SliceIsSorted(summaries, func(i, j int) bool {
		return summaries[i].Height > summaries[j].Height
	}))

	summaries, err = s.backend.Blocks(s.ctx, 4)
	s.Require().NoError(err)
	s.Require().Len(summaries, 5)
	s.Equal(uint64(4), summaries[0].Height)
	s.Equal(uint64(0), summaries[4].Height)
	s.Equal(uint64(1), summaries[0].TxCount)
	s.Equal(NewBlock(4, 1).BlockSize, summaries[0].CumulativeSize)
}

func (s *BackendSuite) TestBlockDepth() {
	blocks := s.saveChain(0, 9)

	detail, err := s.backend.Block(s.ctx, blocks[7].Hash)
	s.Require().NoError(err)
	s.Equal(uint64(7), detail.Height)
	s.Equal(uint64(2), detail.Depth)

	detail, err = s.backend.Block(s.ctx, blocks[9].Hash)
	s.Require().NoError(err)
	s.Equal(uint64(0), detail.Depth)
}

func (s *BackendSuite) TestHeaders() {
	blocks := s.saveChain(0, 3)

	last, err := s.backend.LastBlockHeader(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(3), last.Height)
	s.Equal(blocks[3].Hash, last.Hash)
	s.Equal(blocks[3].PrevHash, last.PrevHash)
	s.Equal(uint64(1), last.NumTxes)
	s.Equal(uint64(0), last.Depth)

	byHash, err := s.backend.BlockHeaderByHash(s.ctx, blocks[1].Hash)
	s.Require().NoError(err)
	s.Equal(uint64(1), byHash.Height)
	s.Equal(uint64(0), byHash.Depth)

	byHeight, err := s.backend.BlockHeaderByHeight(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal(blocks[2].Hash, byHeight.Hash)

	_, err = s.backend.BlockHeaderByHeight(s.ctx, 100)
	s.ErrorIs(err, storage.ErrNotFound)
	_, err = s.backend.BlockHeaderByHash(s.ctx, Hash("e"))
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *BackendSuite) TestTransactionRoundTrip() {
	block := NewBlock(1, 1)
	tx := NewTransaction(block.Transactions[0].Hash, block.Hash, Hash("p"))

	s.Require().NoError(s.backend.SaveTransaction(s.ctx, tx))
	s.Require().NoError(s.backend.SaveTransaction(s.ctx, tx))

	payload, err := s.backend.Transaction(s.ctx, tx.Hash())
	s.Require().NoError(err)
	s.JSONEq(string(tx.RawBlock), string(payload.Block))
	s.JSONEq(string(tx.RawTx), string(payload.Tx))
	s.JSONEq(string(tx.RawDetails), string(payload.Details))
	s.Equal(model.TransactionFetched, payload.Status)
}

func (s *BackendSuite) TestTransactionWithoutDetailsIsSkipped() {
	tx := NewTransaction(Hash("c"), Hash("d"), "")
	tx.RawDetails = nil

	s.Require().NoError(s.backend.SaveTransaction(s.ctx, tx))

	_, err := s.backend.Transaction(s.ctx, tx.Hash())
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *BackendSuite) TestTransactionHashesByPaymentID() {
	blockHash := Hash("b")
	a := NewTransaction(Hash("1"), blockHash, "abc123")
	b := NewTransaction(Hash("2"), blockHash, "abd456")
	c := NewTransaction(Hash("3"), blockHash, "")
	for _, tx := range []model.Transaction{a, b, c} {
		s.Require().NoError(s.backend.SaveTransaction(s.ctx, tx))
	}

	hashes, err := s.backend.TransactionHashesByPaymentID(s.ctx, "ab%")
	s.Require().NoError(err)
	s.ElementsMatch([]string{a.Hash(), b.Hash()}, hashes)

	hashes, err = s.backend.TransactionHashesByPaymentID(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal([]string{a.Hash()}, hashes)

	hashes, err = s.backend.TransactionHashesByPaymentID(s.ctx, "zzz")
	s.Require().NoError(err)
	s.Empty(hashes)
}

func (s *BackendSuite) TestPlaceholderIsReplacedByFetchedTransaction() {
	block := NewBlock(3, 1)
	txHash := block.Transactions[0].Hash

	s.Require().NoError(s.backend.SaveTransaction(s.ctx, model.NewMissingTransaction(txHash, block.Hash)))

	refs, err := s.backend.MissingTransactions(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal([]model.TransactionRef{{Hash: txHash, BlockHash: block.Hash}}, refs)

	payload, err := s.backend.Transaction(s.ctx, txHash)
	s.Require().NoError(err)
	s.Equal(model.TransactionMissing, payload.Status)

	s.Require().NoError(s.backend.SaveTransaction(s.ctx, NewTransaction(txHash, block.Hash, "")))

	refs, err = s.backend.MissingTransactions(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(refs)

	payload, err = s.backend.Transaction(s.ctx, txHash)
	s.Require().NoError(err)
	s.Equal(model.TransactionFetched, payload.Status)
}

func (s *BackendSuite) TestMissingTransactionsLimit() {
	blockHash := Hash("m")
	for i := 0; i < 5; i++ {
		hash := Hash(string(rune('a' + i)))
		s.Require().NoError(s.backend.SaveTransaction(s.ctx, model.NewMissingTransaction(hash, blockHash)))
	}

	refs, err := s.backend.MissingTransactions(s.ctx, 3)
	s.Require().NoError(err)
	s.Len(refs, 3)
}

func (s *BackendSuite) TestMissingTransactionsReachesEveryPlaceholder() {
	blockHash := Hash("m")
	want := map[string]bool{}
	for _, prefix := range []string{"aa", "bb", "cc"} {
		hash := Hash(prefix)
		want[hash] = true
		s.Require().NoError(s.backend.SaveTransaction(s.ctx, model.NewMissingTransaction(hash, blockHash)))
	}

	seen := map[string]bool{}
	for pass := 0; pass < 64 && len(seen) < len(want); pass++ {
		refs, err := s.backend.MissingTransactions(s.ctx, 2)
		s.Require().NoError(err)
		s.Require().Len(refs, 2)
		for _, ref := range refs {
			s.Equal(blockHash, ref.BlockHash)
			seen[ref.Hash] = true
		}
	}
	s.Equal(want, seen)
}

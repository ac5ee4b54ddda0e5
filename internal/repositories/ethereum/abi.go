package ethereum

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const governanceABIJSON = `[
	{"type":"function","name":"isApproved","stateMutability":"view",
	 "inputs":[{"name":"campaignId","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]}
]`

const oracleABIJSON = `[
	{"type":"function","name":"verifyMilestone","stateMutability":"view",
	 "inputs":[{"name":"campaignId","type":"uint256"},{"name":"milestoneIndex","type":"uint32"},{"name":"evidence","type":"string"}],
	 "outputs":[{"name":"","type":"bool"}]}
]`

const custodianABIJSON = `[
	{"type":"function","name":"deposit","stateMutability":"nonpayable",
	 "inputs":[{"name":"campaignId","type":"uint256"},{"name":"from","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[]},
	{"type":"function","name":"releaseFunds","stateMutability":"nonpayable",
	 "inputs":[{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[]},
	{"type":"function","name":"refund","stateMutability":"nonpayable",
	 "inputs":[{"name":"recipient","type":"address"},{"name":"campaignId","type":"uint256"},{"name":"amount","type":"uint256"}],
	 "outputs":[]}
]`

var (
	GovernanceABI = mustParseABI(governanceABIJSON)
	OracleABI     = mustParseABI(oracleABIJSON)
	CustodianABI  = mustParseABI(custodianABIJSON)
)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic("invalid ABI: " + err.Error())
	}
	return parsed
}

func toBig(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

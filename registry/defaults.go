package registry

// defaultDAOs is the built-in tracking table. Tier 1 protocols earn 100
// points per vote, tier 2 earns 80, tiers 3-4 earn 60, tier 5 earns 40.
var defaultDAOs = []DAOConfig{
	{
		ID: "aave.eth", Name: "Aave", Chain: "ethereum",
		GovernanceType:  TypeBoth,
		SnapshotSpace:   "aave.eth",
		GovernorAddress: "0xEC568fffba86c094cf06b22134B23074DFE2252c",
		TokenAddress:    "0x7Fc66500c84A76Ad7e9c93437bFc5Ac33E2DDaE9",
		Tier:            1, PointsPerVote: 100, Active: true,
		SupportedChains: []uint64{1, 137, 42161},
	},
	{
		ID: "uniswapgovernance.eth", Name: "Uniswap", Chain: "ethereum",
		GovernanceType:  TypeBoth,
		SnapshotSpace:   "uniswapgovernance.eth",
		GovernorAddress: "0x408ED6354d4973f66138C91495F2f2FCbd8724C3",
		TokenAddress:    "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
		Tier:            1, PointsPerVote: 100, Active: true,
		SupportedChains: []uint64{1, 137, 42161, 10},
	},
	{
		ID: "curve-dao.eth", Name: "Curve DAO", Chain: "ethereum",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "curve-dao.eth",
		TokenAddress:   "0xD533a949740bb3306d119CC777fa900bA034cd52",
		Tier:           1, PointsPerVote: 100, Active: true,
		SupportedChains: []uint64{1, 137},
	},
	{
		ID: "compound-community.eth", Name: "Compound", Chain: "ethereum",
		GovernanceType:  TypeBoth,
		SnapshotSpace:   "compound-community.eth",
		GovernorAddress: "0xc0Da02939E1441F497fd74F78cE7Decb17B66529",
		TokenAddress:    "0xc00e94Cb662C3520282E6f5717214004A7f26888",
		Tier:            1, PointsPerVote: 100, Active: true,
		SupportedChains: []uint64{1},
	},
	{
		ID: "arbitrumfoundation.eth", Name: "Arbitrum DAO", Chain: "arbitrum",
		GovernanceType:  TypeBoth,
		SnapshotSpace:   "arbitrumfoundation.eth",
		GovernorAddress: "0xf07DeD9dC292157749B6Fd268E37DF6EA38395B9",
		TokenAddress:    "0x912CE59144191C1204E64559FE8253a0e49E6548",
		Tier:            2, PointsPerVote: 80, Active: true,
		SupportedChains: []uint64{42161},
	},
	{
		ID: "optimismgov.eth", Name: "Optimism", Chain: "optimism",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "optimismgov.eth",
		TokenAddress:   "0x4200000000000000000000000000000000000042",
		Tier:           2, PointsPerVote: 80, Active: true,
		SupportedChains: []uint64{10},
	},
	{
		ID: "stgdao.eth", Name: "Stargate", Chain: "ethereum",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "stgdao.eth",
		TokenAddress:   "0xAf5191B0De278C7286d6C7CC6ab6BB8A73bA2Cd6",
		Tier:           2, PointsPerVote: 80, Active: true,
		SupportedChains: []uint64{1, 42161, 10, 137, 56},
	},
	{
		ID: "polygonfoundation.eth", Name: "Polygon", Chain: "polygon",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "polygonfoundation.eth",
		TokenAddress:   "0x7D1AfA7B718fb893dB30A3aBc0Cfc608AaCfeBB0",
		Tier:           2, PointsPerVote: 80, Active: true,
		SupportedChains: []uint64{137},
	},
	{
		ID: "lido-snapshot.eth", Name: "Lido", Chain: "ethereum",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "lido-snapshot.eth",
		TokenAddress:   "0x5A98FcBEA516Cf06857215779Fd812CA3beF1B32",
		Tier:           3, PointsPerVote: 60, Active: true,
		SupportedChains: []uint64{1},
	},
	{
		ID: "balancer.eth", Name: "Balancer", Chain: "ethereum",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "balancer.eth",
		TokenAddress:   "0xba100000625a3754423978a60c9317c58a424e3D",
		Tier:           3, PointsPerVote: 60, Active: true,
		SupportedChains: []uint64{1, 137, 42161},
	},
	{
		ID: "sushigov.eth", Name: "SushiSwap", Chain: "ethereum",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "sushigov.eth",
		TokenAddress:   "0x6B3595068778DD592e39A122f4f5a5cF09C90fE2",
		Tier:           3, PointsPerVote: 60, Active: true,
		SupportedChains: []uint64{1, 137, 42161},
	},
	{
		ID: "1inch.eth", Name: "1inch", Chain: "ethereum",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "1inch.eth",
		TokenAddress:   "0x111111111117dC0aa78b770fA6A738034120C302",
		Tier:           3, PointsPerVote: 60, Active: true,
		SupportedChains: []uint64{1, 137, 42161},
	},
	{
		ID: "ens.eth", Name: "ENS", Chain: "ethereum",
		GovernanceType: TypeBoth,
		SnapshotSpace:  "ens.eth",
		TokenAddress:   "0xC18360217D8F7Ab5e7c516566761Ea12Ce7F9D72",
		Tier:           4, PointsPerVote: 60, Active: true,
		SupportedChains: []uint64{1},
	},
	{
		ID: "safe.eth", Name: "Safe", Chain: "ethereum",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "safe.eth",
		TokenAddress:   "0x5aFE3855358E112B5647B952709E6165e1c1eEEe",
		Tier:           4, PointsPerVote: 60, Active: true,
		SupportedChains: []uint64{1, 137, 42161},
	},
	{
		ID: "gitcoindao.eth", Name: "Gitcoin", Chain: "ethereum",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "gitcoindao.eth",
		TokenAddress:   "0xDe30da39c46104798bB5aA3fe8B9e0e1F348163F",
		Tier:           4, PointsPerVote: 60, Active: true,
		SupportedChains: []uint64{1},
	},
	{
		ID: "thegraph.eth", Name: "The Graph", Chain: "ethereum",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "thegraph.eth",
		TokenAddress:   "0xc944E90C64B2c07662A292be6244BDf05Cda44a7",
		Tier:           4, PointsPerVote: 60, Active: true,
		SupportedChains: []uint64{1, 137, 42161},
	},
	{
		ID: "paraswap-dao.eth", Name: "ParaSwap", Chain: "ethereum",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "paraswap-dao.eth",
		TokenAddress:   "0xcAfE001067cDEF266AfB7Eb5A286dCFD277f3dE5",
		Tier:           5, PointsPerVote: 40, Active: true,
		SupportedChains: []uint64{1, 137},
	},
	{
		ID: "olympusdao.eth", Name: "Olympus DAO", Chain: "ethereum",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "olympusdao.eth",
		TokenAddress:   "0x64aa3364F17a4D01c6f1751Fd97C2BD3D7e7f1D5",
		Tier:           5, PointsPerVote: 40, Active: true,
		SupportedChains: []uint64{1},
	},
	{
		ID: "apecoin.eth", Name: "ApeCoin DAO", Chain: "ethereum",
		GovernanceType: TypeSnapshot,
		SnapshotSpace:  "apecoin.eth",
		TokenAddress:   "0x4d224452801ACEd8B2F0aebE155379bb5D594381",
		Tier:           5, PointsPerVote: 40, Active: true,
		SupportedChains: []uint64{1},
	},
}

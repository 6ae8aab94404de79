package clickhouse

const blockColumns = `height,
	hash,
	prev_hash,
	difficulty,
	nonce,
	major_version,
	minor_version,
	block_size,
	size_median,
	effective_size_median,
	transactions_cumulative_size,
	base_reward,
	reward,
	penalty,
	already_generated_coins,
	already_generated_transactions,
	total_fee_amount,
	orphan_status,
	timestamp,
	tx_count,
	transactions`

const transactionColumns = `hash,
	payment_id,
	block_hash,
	mixin,
	size,
	fee,
	amount_out,
	status,
	block,
	tx,
	tx_details`

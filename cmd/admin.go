package cmd

import (
	"strconv"

	"vault/core"

	"github.com/spf13/cobra"
)

// administrative operations run as the configured owner

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "halt every mutating ledger operation",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		walletService := provideWalletService(database, system)
		priceService := providePriceService(database, system)
		yieldService := provideYieldService(database, system, walletService)
		vaultService := provideVaultService(database, system, walletService, yieldService, priceService)

		if err := vaultService.Pause(cmd.Context(), system.Owner); err != nil {
			cmd.PrintErrln("pause error:", err)
			return
		}

		cmd.Println("paused")
	},
}

var unpauseCmd = &cobra.Command{
	Use:   "unpause",
	Short: "resume ledger operations",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		walletService := provideWalletService(database, system)
		priceService := providePriceService(database, system)
		yieldService := provideYieldService(database, system, walletService)
		vaultService := provideVaultService(database, system, walletService, yieldService, priceService)

		if err := vaultService.Unpause(cmd.Context(), system.Owner); err != nil {
			cmd.PrintErrln("unpause error:", err)
			return
		}

		cmd.Println("unpaused")
	},
}

var setMinDepositCmd = &cobra.Command{
	Use:   "set-min-deposit <amount>",
	Short: "set the minimum collateral per deposit",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		amount, err := core.NewAmountFromString(args[0])
		if err != nil {
			cmd.PrintErrln("invalid amount:", err)
			return
		}

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		walletService := provideWalletService(database, system)
		priceService := providePriceService(database, system)
		yieldService := provideYieldService(database, system, walletService)
		vaultService := provideVaultService(database, system, walletService, yieldService, priceService)

		if err := vaultService.SetMinDeposit(cmd.Context(), system.Owner, amount); err != nil {
			cmd.PrintErrln("set min deposit error:", err)
			return
		}

		cmd.Println("min deposit:", amount.String())
	},
}

var setFeeSplitCmd = &cobra.Command{
	Use:   "set-fee-split <user-bps> <protocol-bps>",
	Short: "set the harvest split, shares must sum to 10000",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		userBps, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			cmd.PrintErrln("invalid user bps:", err)
			return
		}
		protocolBps, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			cmd.PrintErrln("invalid protocol bps:", err)
			return
		}

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		walletService := provideWalletService(database, system)
		yieldService := provideYieldService(database, system, walletService)

		if err := yieldService.SetFeeSplit(cmd.Context(), system.Owner, userBps, protocolBps); err != nil {
			cmd.PrintErrln("set fee split error:", err)
			return
		}

		cmd.Println("fee split:", userBps, "/", protocolBps)
	},
}

var bridgeCreditCmd = &cobra.Command{
	Use:   "bridge-credit <user> <amount>",
	Short: "credit bridged collateral to a user wallet",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		amount, err := core.NewAmountFromString(args[1])
		if err != nil {
			cmd.PrintErrln("invalid amount:", err)
			return
		}

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		walletService := provideWalletService(database, system)

		if err := walletService.BridgeCredit(cmd.Context(), system.Owner, args[0], amount); err != nil {
			cmd.PrintErrln("bridge credit error:", err)
			return
		}

		cmd.Println("credited", amount.String(), "to", args[0])
	},
}

var setOracleCmd = &cobra.Command{
	Use:   "set-oracle <url>",
	Short: "repoint the price feed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		priceService := providePriceService(database, system)

		if err := priceService.SetEndpoint(cmd.Context(), system.Owner, args[0]); err != nil {
			cmd.PrintErrln("set oracle error:", err)
			return
		}

		cmd.Println("oracle:", args[0])
	},
}

var setPoolCmd = &cobra.Command{
	Use:   "set-pool <url>",
	Short: "repoint the pooled yield venue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		walletService := provideWalletService(database, system)
		yieldService := provideYieldService(database, system, walletService)

		if err := yieldService.SetPoolEndpoint(cmd.Context(), system.Owner, args[0]); err != nil {
			cmd.PrintErrln("set pool error:", err)
			return
		}

		cmd.Println("pool:", args[0])
	},
}

var emergencyWithdrawCmd = &cobra.Command{
	Use:   "emergency-withdraw",
	Short: "pull everything back from the yield source and pause",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		walletService := provideWalletService(database, system)
		yieldService := provideYieldService(database, system, walletService)

		recovered, err := yieldService.EmergencyWithdrawAll(cmd.Context(), system.Owner)
		if err != nil {
			cmd.PrintErrln("emergency withdraw error:", err)
			return
		}

		cmd.Println("recovered:", recovered.String())
	},
}

var harvestAllCmd = &cobra.Command{
	Use:   "harvest-all",
	Short: "harvest yield for every depositor",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		walletService := provideWalletService(database, system)
		yieldService := provideYieldService(database, system, walletService)

		paid, err := yieldService.HarvestAll(cmd.Context())
		if err != nil {
			cmd.PrintErrln("harvest error:", err)
			return
		}

		cmd.Println("paid:", paid.String())
	},
}

func init() {
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(unpauseCmd)
	rootCmd.AddCommand(setMinDepositCmd)
	rootCmd.AddCommand(setFeeSplitCmd)
	rootCmd.AddCommand(bridgeCreditCmd)
	rootCmd.AddCommand(setOracleCmd)
	rootCmd.AddCommand(setPoolCmd)
	rootCmd.AddCommand(emergencyWithdrawCmd)
	rootCmd.AddCommand(harvestAllCmd)
}

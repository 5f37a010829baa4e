// mintgate 交易提交与 gas 定价网关
package main

func main() {
	Execute()
}
